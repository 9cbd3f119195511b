// Package module is the contract a mountable module meets and the bootstrap registry of its ports
package module

import (
	"fmt"
	"reflect"
	"sync"

	phttp "diffjar/internal/platform/net/http"
)

// Module mounts routes and exposes ports for other modules
// it lives apart from modkit so a module's own ports package can import it
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}

var ports sync.Map

// Register publishes the ports of the module called name, replacing earlier ports
func Register(name string, p any) { ports.Store(name, p) }

// PortsAs returns the ports registered under name when they are a T
func PortsAs[T any](name string) (T, bool) {
	v, _ := ports.Load(name)
	t, ok := v.(T)
	return t, ok
}

// Reset forgets every registration
func Reset() { ports.Clear() }

// PortsOf finds a T among m's ports: the ports value itself, or else its first exported field holding a T
func PortsOf[T any](m Module) (T, bool) {
	p := m.Ports()
	if t, ok := p.(T); ok {
		return t, true
	}
	var zero T
	v := reflect.ValueOf(p)
	if v.Kind() != reflect.Struct {
		return zero, false
	}
	for i := range v.NumField() {
		f := v.Field(i)
		if !f.CanInterface() {
			continue
		}
		if t, ok := f.Interface().(T); ok {
			return t, true
		}
	}
	return zero, false
}

// MustPortsOf is PortsOf for wiring that cannot continue without the port
func MustPortsOf[T any](m Module) T {
	t, ok := PortsOf[T](m)
	if !ok {
		panic(fmt.Sprintf("module %s has no %s port", m.Name(), reflect.TypeFor[T]()))
	}
	return t
}
