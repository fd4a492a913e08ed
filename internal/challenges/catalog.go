package challenges

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

const catalogReloadDebounce = 200 * time.Millisecond

// Definition describes a challenge users can join.
type Definition struct {
	Key         MetricKey `yaml:"key" json:"key"`
	Title       string    `yaml:"title" json:"title"`
	Aliases     []string  `yaml:"aliases" json:"aliases,omitempty"`
	Category    string    `yaml:"category" json:"category"`
	Description string    `yaml:"description" json:"description"`
	Target      float64   `yaml:"target" json:"target"`
}

type catalogFile struct {
	Challenges []Definition `yaml:"challenges"`
}

// Catalog holds the joinable challenge definitions. It is safe for
// concurrent use and can be reloaded while in use.
type Catalog struct {
	mu      sync.RWMutex
	defs    []Definition
	byKey   map[MetricKey]Definition
	byTitle map[string]MetricKey
}

func ParseCatalog(data []byte) ([]Definition, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}

	seen := make(map[MetricKey]bool, len(file.Challenges))
	for i, def := range file.Challenges {
		if def.Key == "" || strings.TrimSpace(def.Title) == "" {
			return nil, fmt.Errorf("catalog entry %d: key and title are required", i)
		}
		if def.Target <= 0 {
			return nil, fmt.Errorf("catalog entry %q: target must be positive", def.Key)
		}
		if seen[def.Key] {
			return nil, fmt.Errorf("catalog entry %q: duplicate key", def.Key)
		}
		seen[def.Key] = true
	}
	return file.Challenges, nil
}

func NewCatalog(defs []Definition) *Catalog {
	c := &Catalog{}
	c.set(defs)
	return c
}

// LoadCatalog reads the catalog from path, or returns the embedded default
// catalog when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
	}

	defs, err := ParseCatalog(data)
	if err != nil {
		return nil, err
	}
	return NewCatalog(defs), nil
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}

func (c *Catalog) set(defs []Definition) {
	byKey := make(map[MetricKey]Definition, len(defs))
	byTitle := make(map[string]MetricKey, len(defs))
	for _, def := range defs {
		byKey[def.Key] = def
		byTitle[normalizeTitle(def.Title)] = def.Key
		for _, alias := range def.Aliases {
			byTitle[normalizeTitle(alias)] = def.Key
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.defs = slices.Clone(defs)
	c.byKey = byKey
	c.byTitle = byTitle
}

func (c *Catalog) Definitions() []Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.defs)
}

func (c *Catalog) Definition(key MetricKey) (Definition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.byKey[key]
	return def, ok
}

// KeyForTitle finds the metric key of a definition by its current title or
// one of its former titles. Matching ignores case and repeated whitespace.
func (c *Catalog) KeyForTitle(title string) (MetricKey, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key, ok := c.byTitle[normalizeTitle(title)]
	return key, ok
}

// Resolve returns the metric key driving ch. Challenges stored before metric
// keys existed are resolved by title.
func (c *Catalog) Resolve(ch Challenge) (MetricKey, bool) {
	if ch.MetricKey != "" {
		return ch.MetricKey, true
	}
	return c.KeyForTitle(ch.Title)
}

func (c *Catalog) reload(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	defs, err := ParseCatalog(data)
	if err != nil {
		return err
	}
	c.set(defs)
	return nil
}

// Watch reloads the catalog whenever the file at path changes. A file that
// fails to parse is logged and the previous definitions stay in place. The
// returned func stops watching.
func (c *Catalog) Watch(path string) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	path = filepath.Clean(path)
	// editors usually replace the file, so watch its directory
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch catalog dir: %w", err)
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()

		var debounceTimer *time.Timer
		defer func() {
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
		}()

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != path || !event.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}

				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(catalogReloadDebounce, func() {
					if err := c.reload(path); err != nil {
						log.Errorf("reload challenge catalog %s: %s", path, err)
						return
					}
					log.Infof("challenge catalog reloaded from %s", path)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warnf("challenge catalog watcher: %s", err)
			case <-done:
				return
			}
		}
	}()

	stop := func() {
		close(done)
		wg.Wait()
		if err := watcher.Close(); err != nil {
			log.Errorf("close catalog watcher: %s", err)
		}
	}
	return stop, nil
}
