package operation

// Handler names registered by default.
const (
	HandlerOneToOne   = "one-to-one"
	HandlerOneToMany  = "one-to-many"
	HandlerManyToMany = "many-to-many"
	HandlerReflect    = "reflect"
)

// Property-mapping strategy names registered by default.
const (
	StrategyNotNull       = "not-null"
	StrategyReferenceNull = "reference-null"
)
