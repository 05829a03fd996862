// Package runtime provides the execution context for pstack commands.
//
// It encapsulates shared dependencies needed by actions, such as the
// repository store, logger, configuration and repository root path.
package runtime
