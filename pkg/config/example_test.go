package config_test

import (
	"fmt"

	"github.com/ajitpratap0/objectpool/pkg/config"
)

// ExampleDefault demonstrates the built-in configuration.
func ExampleDefault() {
	cfg := config.Default()

	fmt.Printf("Kind: %s\n", cfg.Pool.Kind)
	fmt.Printf("Size: %d\n", cfg.Pool.Size)
	fmt.Printf("Queue: %s\n", cfg.Pool.QueueType())

	// Output:
	// Kind: blocking
	// Size: 16
	// Queue: ring
}

// ExamplePoolConfig_Validate shows a configuration error being reported.
func ExamplePoolConfig_Validate() {
	cfg := config.Default()
	cfg.Pool.Kind = config.KindSuspending
	cfg.Pool.Queue = config.QueueLinked

	if err := cfg.Pool.Validate(); err != nil {
		fmt.Println(err)
	}

	// Output:
	// config: queue not supported by pool kind
}
