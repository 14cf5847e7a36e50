package assembler

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"struct-assembler/container"
	"struct-assembler/convert"
	"struct-assembler/executor"
	"struct-assembler/handler"
	"struct-assembler/parser"
	"struct-assembler/property"
)

// Option configures an Assembler.
type Option func(*settings)

type settings struct {
	log           logr.Logger
	converter     *convert.Converter
	resolvers     []parser.Resolver
	assemblers    map[string]handler.AssembleHandler
	disassemblers map[string]handler.DisassembleHandler
	strategies    map[string]handler.Strategy
}

// WithLogr sets the logger of every component.
func WithLogr(log logr.Logger) Option {
	return func(s *settings) {
		s.log = log
	}
}

// WithConverter sets the converter used for writes and key coercion.
func WithConverter(c *convert.Converter) Option {
	return func(s *settings) {
		s.converter = c
	}
}

// WithResolvers adds metadata resolvers after the declarer, tag and file resolvers.
func WithResolvers(rs ...parser.Resolver) Option {
	return func(s *settings) {
		s.resolvers = append(s.resolvers, rs...)
	}
}

// WithAssembleHandler registers an assemble handler under name.
func WithAssembleHandler(name string, h handler.AssembleHandler) Option {
	return func(s *settings) {
		s.assemblers[name] = h
	}
}

// WithDisassembleHandler registers a disassemble handler under name.
func WithDisassembleHandler(name string, h handler.DisassembleHandler) Option {
	return func(s *settings) {
		s.disassemblers[name] = h
	}
}

// WithStrategy registers a property-mapping strategy under name.
func WithStrategy(name string, st handler.Strategy) Option {
	return func(s *settings) {
		s.strategies[name] = st
	}
}

// Assembler owns the model cache, the container registry and the handlers,
// and fills objects with them.
type Assembler struct {
	cfg        Config
	parser     *parser.Parser
	containers *container.Manager
	executor   *executor.Executor
	log        logr.Logger
}

// New validates cfg, loads its descriptor files and wires the components.
func New(cfg Config, opts ...Option) (*Assembler, error) {
	s := settings{
		log:           logr.Discard(),
		converter:     convert.Default(),
		assemblers:    map[string]handler.AssembleHandler{},
		disassemblers: map[string]handler.DisassembleHandler{},
		strategies:    map[string]handler.Strategy{},
	}

	for _, opt := range opts {
		opt(&s)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	policy, err := executor.ParsePolicy(cfg.Policy)
	if err != nil {
		return nil, err
	}

	resolvers := []parser.Resolver{parser.DeclarerResolver{}, parser.TagResolver{}}

	if len(cfg.Descriptors) > 0 {
		files, err := parser.LoadFileResolver(cfg.Descriptors...)
		if err != nil {
			return nil, fmt.Errorf("load descriptors: %w", err)
		}

		for _, w := range files.Warnings() {
			s.log.Info("descriptor warning", "warning", w)
		}

		resolvers = append(resolvers, files)
	}

	accessor := property.New(s.converter)

	p := parser.New(
		parser.WithResolvers(append(resolvers, s.resolvers...)...),
		parser.WithInspector(accessor),
		parser.WithPropertyValidation(cfg.ValidateProperties),
		parser.WithLogr(s.log.WithName("parser")),
	)

	containers := container.NewManager(container.WithLogr(s.log.WithName("containers")), container.WithConverter(s.converter))

	hopts := []handler.Option{
		handler.WithConverter(s.converter),
		handler.WithSplitter(handler.DefaultSplitter{Separator: cfg.Separator}),
	}
	for name, st := range s.strategies {
		hopts = append(hopts, handler.WithStrategy(name, st))
	}

	eopts := []executor.Option{
		executor.WithLogr(s.log.WithName("executor")),
		executor.WithPolicy(policy),
		executor.WithBatchSize(cfg.BatchSize),
		executor.WithAccessor(accessor),
		executor.WithHandlerOptions(hopts...),
	}
	for name, h := range s.assemblers {
		eopts = append(eopts, executor.WithAssembleHandler(name, h))
	}

	for name, h := range s.disassemblers {
		eopts = append(eopts, executor.WithDisassembleHandler(name, h))
	}

	return &Assembler{
		cfg:        cfg,
		parser:     p,
		containers: containers,
		executor:   executor.New(p, containers, eopts...),
		log:        s.log,
	}, nil
}

// Register adds containers to the registry.
func (a *Assembler) Register(cs ...container.Container) error {
	return a.containers.Register(cs...)
}

// RegisterCached wraps each container in a cache sized by the configuration
// and registers it. The caches are released by Close.
func (a *Assembler) RegisterCached(cs ...container.Container) error {
	cached := make([]*container.Cacheable, 0, len(cs))
	release := func() {
		for _, c := range cached {
			_ = c.Close()
		}
	}

	for _, c := range cs {
		cc, err := container.NewCacheable(c, a.cfg.Cache, container.WithLogr(a.log.WithName("cache")))
		if err != nil {
			release()

			return err
		}

		cached = append(cached, cc)
	}

	registered := make([]container.Container, len(cached))
	for i, c := range cached {
		registered[i] = c
	}

	if err := a.containers.Register(registered...); err != nil {
		release()

		return err
	}

	return nil
}

// Containers returns the container registry.
func (a *Assembler) Containers() *container.Manager {
	return a.containers
}

// Parser returns the model parser and its cache.
func (a *Assembler) Parser() *parser.Parser {
	return a.parser
}

// Fill runs the operations declared for targets; see executor.Executor.Execute.
func (a *Assembler) Fill(ctx context.Context, targets any, opts ...executor.CallOption) error {
	return a.executor.Execute(ctx, targets, opts...)
}

// Close closes the registered containers that hold resources.
func (a *Assembler) Close() error {
	return a.containers.Close()
}
