// Package helper injects the runtime helper functions that lowered
// class-field code calls into.
//
// Helper bodies are ordinary JS, parsed with the host parser on first
// use, renamed to collision-free identifiers and deduplicated. Brand
// checks and uninitialized-access errors live in these bodies; the
// lowering pass only routes to them.
package helper

import (
	"fmt"

	"github.com/t14raptor/go-fast/ast"
	"github.com/t14raptor/go-fast/parser"

	"github.com/t14raptor/go-fast-classprops/uid"
)

type Name string

const (
	DefineProperty             Name = "defineProperty"
	ClassPrivateFieldGet       Name = "classPrivateFieldGet"
	ClassPrivateFieldSet       Name = "classPrivateFieldSet"
	ClassStaticPrivateFieldGet Name = "classStaticPrivateFieldSpecGet"
	ClassStaticPrivateFieldSet Name = "classStaticPrivateFieldSpecSet"
	ClassPrivateFieldLooseKey  Name = "classPrivateFieldLooseKey"
	ClassPrivateFieldLooseBase Name = "classPrivateFieldLooseBase"
)

// source holds each helper as JS. The identifiers listed in renames are
// module-level bindings of the helper and are re-allocated per program.
var sources = map[Name]struct {
	js      string
	renames []string
}{
	DefineProperty: {
		js: `function _defineProperty(obj, key, value) {
			if (key in obj) {
				Object.defineProperty(obj, key, { value: value, enumerable: true, configurable: true, writable: true });
			} else {
				obj[key] = value;
			}
			return obj;
		}`,
		renames: []string{"_defineProperty"},
	},
	ClassPrivateFieldGet: {
		js: `function _classPrivateFieldGet(receiver, privateMap) {
			if (!privateMap.has(receiver)) {
				throw new TypeError("attempted to get private field on non-instance");
			}
			return privateMap.get(receiver).value;
		}`,
		renames: []string{"_classPrivateFieldGet"},
	},
	ClassPrivateFieldSet: {
		js: `function _classPrivateFieldSet(receiver, privateMap, value) {
			if (!privateMap.has(receiver)) {
				throw new TypeError("attempted to set private field on non-instance");
			}
			var descriptor = privateMap.get(receiver);
			if (!descriptor.writable) {
				throw new TypeError("attempted to set read only private field");
			}
			descriptor.value = value;
			return value;
		}`,
		renames: []string{"_classPrivateFieldSet"},
	},
	ClassStaticPrivateFieldGet: {
		js: `function _classStaticPrivateFieldSpecGet(receiver, classConstructor, descriptor) {
			if (receiver !== classConstructor) {
				throw new TypeError("Private static access of wrong provenance");
			}
			return descriptor.value;
		}`,
		renames: []string{"_classStaticPrivateFieldSpecGet"},
	},
	ClassStaticPrivateFieldSet: {
		js: `function _classStaticPrivateFieldSpecSet(receiver, classConstructor, descriptor, value) {
			if (receiver !== classConstructor) {
				throw new TypeError("Private static access of wrong provenance");
			}
			if (!descriptor.writable) {
				throw new TypeError("attempted to set read only private field");
			}
			descriptor.value = value;
			return value;
		}`,
		renames: []string{"_classStaticPrivateFieldSpecSet"},
	},
	ClassPrivateFieldLooseKey: {
		js: `var _privateKeyId = 0;
		function _classPrivateFieldLooseKey(name) {
			return "__private_" + _privateKeyId++ + "_" + name;
		}`,
		renames: []string{"_classPrivateFieldLooseKey", "_privateKeyId"},
	},
	ClassPrivateFieldLooseBase: {
		js: `function _classPrivateFieldLooseBase(receiver, privateKey) {
			if (!Object.prototype.hasOwnProperty.call(receiver, privateKey)) {
				throw new TypeError("attempted to use private field on non-instance");
			}
			return receiver;
		}`,
		renames: []string{"_classPrivateFieldLooseBase"},
	},
}

// Injector hands out references to runtime helpers and accumulates the
// helper declarations a program needs, each injected at most once.
type Injector struct {
	uids     *uid.Allocator
	injected map[Name]*ast.Identifier
	order    []Name
	stmts    map[Name]ast.Statements
}

func NewInjector(uids *uid.Allocator) *Injector {
	return &Injector{
		uids:     uids,
		injected: make(map[Name]*ast.Identifier),
		stmts:    make(map[Name]ast.Statements),
	}
}

// Ref returns an identifier expression referencing the helper, parsing
// and registering its body on first use.
func (inj *Injector) Ref(name Name) *ast.Identifier {
	if id, ok := inj.injected[name]; ok {
		return &ast.Identifier{Name: id.Name}
	}

	src, ok := sources[name]
	if !ok {
		panic(fmt.Sprintf("helper: unknown helper %q", name))
	}
	prog, err := parser.ParseFile(src.js)
	if err != nil {
		panic(fmt.Sprintf("helper: cannot parse %q source: %v", name, err))
	}

	// The first rename is the helper function itself; the rest are its
	// module-level state. All get fresh arena names.
	var ref *ast.Identifier
	for i, old := range src.renames {
		fresh := inj.uids.UID(old[1:])
		rename(prog, old, fresh.Name)
		if i == 0 {
			ref = fresh
		}
	}

	inj.injected[name] = ref
	inj.order = append(inj.order, name)
	inj.stmts[name] = prog.Body
	return &ast.Identifier{Name: ref.Name}
}

// Statements returns the injected helper declarations in first-use
// order, for the host to prepend to the program.
func (inj *Injector) Statements() ast.Statements {
	var out ast.Statements
	for _, name := range inj.order {
		out = append(out, inj.stmts[name]...)
	}
	return out
}

type renameVisitor struct {
	ast.NoopVisitor
	from, to string
}

func (v *renameVisitor) VisitIdentifier(n *ast.Identifier) {
	if n.Name == v.from {
		n.Name = v.to
	}
}

func rename(root ast.VisitableNode, from, to string) {
	v := &renameVisitor{from: from, to: to}
	v.V = v
	root.VisitWith(v)
}
