// Package config describes pools and workloads in YAML for the objpool
// command.
//
// # Structure
//
//	pool:
//	  name: buffers
//	  kind: bounded          # blocking, non_blocking, bounded, soft, suspending
//	  size: 16               # pre-fill count (blocking, suspending)
//	  max_size: 64           # bounded ceiling
//	  fill_pool: true        # suspending only
//	  queue: mpmc            # optional, defaults per kind
//	  reclaim:               # soft only
//	    interval: 1s
//	    max_heap_mb: 512
//	    max_system_percent: 90
//	workload:
//	  workers: 8
//	  duration: 30s
//	  rate: 10000
//	  hold: 1ms
//	observability:
//	  metrics_addr: ":9090"
//	  enable_tracing: false
//	logging:
//	  level: info
//	  encoding: json
//
// Default queues per kind:
//
//	blocking      ring     (array)
//	non_blocking  linked   (mpmc, ring, array)
//	bounded       mpmc     (linked, ring, array)
//	soft          linked   (mpmc)
//	suspending    channel
//
// # Environment Variable Substitution
//
// ${VAR_NAME} anywhere in the file is replaced with the variable's value
// before parsing:
//
//	pool:
//	  name: ${POOL_NAME}
//
// # Usage
//
//	cfg, err := config.Load("objpool.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Load starts from Default, so a file only needs the fields it changes.
// Validation errors are errors.ErrorTypeConfig with a "field" detail.
package config
