package agent

import (
	"fmt"
	"reflect"
	"sort"

	"golang.org/x/exp/maps"
)

// Type represents a specific type of an agent Config.
// Config's with this type can create Agents of the corresponding type.
//
// For example, if a Config has Type TRPOLinear, then the Config is
// used to construct TRPO agents using linear softmax policies.
type Type string

const (
	A2CLinear  Type = "A2C-Linear"
	PPOLinear  Type = "PPO-Linear"
	TRPOLinear Type = "TRPO-Linear"
)

// Registered types with the package. Once a Type has been registered
// with this map, a Config with that type can be created.
//
// No Type's are registered wtih this package upon initialization.
// Each separate package is in charge of registering its Type with
// the package separately to avoid circular imports.
var registeredTypes = make(map[Type]reflect.Type)

// Register registers an agent's Type with a concrete Config type so
// that upon deserialization of a TypedConfig, Configs of type
// agentType are deserialized into the concrete type of config.
//
// Note that each package is required to register its own Config's
// with an agentType separately.
func Register(agentType Type, config Config) {
	registeredTypes[agentType] = reflect.TypeOf(config)
}

// Registered returns the sorted list of registered agent Types
func Registered() []Type {
	types := maps.Keys(registeredTypes)
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// NewConfig returns the zero value Config of a registered Type
func NewConfig(agentType Type) (Config, error) {
	ty, ok := registeredTypes[agentType]
	if !ok {
		return nil, fmt.Errorf("newConfig: no agent type %q registered, "+
			"want one of %v", agentType, Registered())
	}
	return reflect.New(ty).Elem().Interface().(Config), nil
}
