package container

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"go.uber.org/multierr"
)

// Manager is a thread-safe registry of containers by namespace.
type Manager struct {
	mu         sync.RWMutex
	containers map[string]Container
	opts       options
}

// NewManager returns an empty registry.
func NewManager(opts ...Option) *Manager {
	return &Manager{
		containers: map[string]Container{},
		opts:       newOptions(opts),
	}
}

// Register adds containers. It fails on an empty or already registered namespace
// and registers none of them in that case.
func (m *Manager) Register(cs ...Container) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := map[string]struct{}{}

	for _, c := range cs {
		ns := c.Namespace()
		if ns == "" {
			return fmt.Errorf("register %T: %w", c, ErrEmptyNamespace)
		}

		if _, ok := m.containers[ns]; ok {
			return fmt.Errorf("register %q: %w", ns, ErrDuplicateNamespace)
		}

		if _, ok := seen[ns]; ok {
			return fmt.Errorf("register %q: %w", ns, ErrDuplicateNamespace)
		}

		seen[ns] = struct{}{}
	}

	for _, c := range cs {
		m.containers[c.Namespace()] = c
		m.opts.log.Info("container registered", "namespace", c.Namespace())
	}

	return nil
}

// Replace registers c, returning the container it replaced, if any.
func (m *Manager) Replace(c Container) (Container, error) {
	ns := c.Namespace()
	if ns == "" {
		return nil, fmt.Errorf("replace %T: %w", c, ErrEmptyNamespace)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	previous := m.containers[ns]
	m.containers[ns] = c
	m.opts.log.Info("container replaced", "namespace", ns, "existed", previous != nil)

	return previous, nil
}

// Container implements Provider.
func (m *Manager) Container(namespace string) (Container, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.containers[namespace]

	return c, ok
}

// Remove unregisters a namespace and returns the container, if any.
// The container is not closed.
func (m *Manager) Remove(namespace string) (Container, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.containers[namespace]
	delete(m.containers, namespace)

	if ok {
		m.opts.log.Info("container removed", "namespace", namespace)
	}

	return c, ok
}

// Namespaces returns the registered namespaces in sorted order.
func (m *Manager) Namespaces() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.containers))
	for ns := range m.containers {
		out = append(out, ns)
	}

	sort.Strings(out)

	return out
}

// Close closes every registered container implementing io.Closer and
// empties the registry.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error

	for ns, c := range m.containers {
		if closer, ok := c.(io.Closer); ok {
			if cerr := closer.Close(); cerr != nil {
				err = multierr.Append(err, fmt.Errorf("close %q: %w", ns, cerr))
			}
		}
	}

	m.containers = map[string]Container{}

	return err
}

// Overlay resolves namespaces against per-call containers first, then a base provider.
type Overlay struct {
	base      Provider
	overrides map[string]Container
}

// NewOverlay layers overrides over base. base may be nil.
func NewOverlay(base Provider, overrides ...Container) *Overlay {
	o := &Overlay{base: base, overrides: make(map[string]Container, len(overrides))}
	for _, c := range overrides {
		o.overrides[c.Namespace()] = c
	}

	return o
}

// Container implements Provider.
func (o *Overlay) Container(namespace string) (Container, bool) {
	if c, ok := o.overrides[namespace]; ok {
		return c, true
	}

	if o.base == nil {
		return nil, false
	}

	return o.base.Container(namespace)
}

// Namespaces implements Lister, merging the overrides with the base's
// namespaces when the base can list them.
func (o *Overlay) Namespaces() []string {
	set := map[string]struct{}{}
	for ns := range o.overrides {
		set[ns] = struct{}{}
	}

	if l, ok := o.base.(Lister); ok {
		for _, ns := range l.Namespaces() {
			set[ns] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for ns := range set {
		out = append(out, ns)
	}

	sort.Strings(out)

	return out
}
