// Package ports defines the interfaces between the mapping engine and
// the outside world. Adapters implement them; the engine and the
// surfaces depend only on the interfaces.
package ports
