//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2024 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package rest

import (
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/mhk76/RestApiTransactions/entities/resources"
)

// Declaration names resources an endpoint reads or writes.
type Declaration struct {
	write bool
	names []string
}

// Read declares resources the endpoint reads.
func Read(names ...string) Declaration {
	return Declaration{names: names}
}

// Write declares resources the endpoint writes. Writing implies reading.
func Write(names ...string) Declaration {
	return Declaration{write: true, names: names}
}

type declared struct {
	reads  resources.Set
	writes resources.Set
}

// Declarations maps routes to the resources they declared. Routes without
// declarations neither read nor write anything.
type Declarations struct {
	mu     sync.RWMutex
	routes map[*mux.Route]declared
}

func NewDeclarations() *Declarations {
	return &Declarations{routes: map[*mux.Route]declared{}}
}

// Declare attaches decls to route. Declaring the same route again adds to
// what it declared before.
func (d *Declarations) Declare(route *mux.Route, decls ...Declaration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	prev := d.routes[route]
	var reads, writes []string
	for _, decl := range decls {
		reads = append(reads, decl.names...)
		if decl.write {
			writes = append(writes, decl.names...)
		}
	}
	d.routes[route] = declared{
		reads:  prev.reads.Union(resources.NewSet(reads...)),
		writes: prev.writes.Union(resources.NewSet(writes...)),
	}
}

// Lookup returns the declarations of the route r was matched to. It must
// run inside the router, after matching.
func (d *Declarations) Lookup(r *http.Request) (reads, writes resources.Set) {
	route := mux.CurrentRoute(r)
	if route == nil {
		return nil, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	decl := d.routes[route]
	return decl.reads, decl.writes
}

// HandleDeclared registers handler on path and declares its resources.
func HandleDeclared(router *mux.Router, d *Declarations, path string,
	handler http.Handler, decls ...Declaration,
) *mux.Route {
	route := router.Handle(path, handler)
	d.Declare(route, decls...)
	return route
}
