package treedoc

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/vango-dev/graft/internal/errors"
	"github.com/vango-dev/graft/pkg/vdom"
)

// programs caches compiled expressions by source.
type programs struct {
	mu    sync.Mutex
	cache map[string]*vm.Program
}

func (p *programs) run(src string, env map[string]any) (any, error) {
	p.mu.Lock()
	prg, ok := p.cache[src]
	if !ok {
		var err error
		prg, err = expr.Compile(src)
		if err != nil {
			p.mu.Unlock()
			return nil, err
		}
		if p.cache == nil {
			p.cache = make(map[string]*vm.Program)
		}
		p.cache[src] = prg
	}
	p.mu.Unlock()
	return expr.Run(prg, env)
}

// expand evaluates the ${...} expressions in s. A string that consists of
// exactly one expression yields the expression's value unchanged.
func (p *programs) expand(s string, env map[string]any, path string) (any, error) {
	if !strings.Contains(s, "${") {
		return s, nil
	}
	if src, ok := wholeExpr(s); ok {
		v, err := p.run(src, env)
		if err != nil {
			return nil, exprErr(path, src, err)
		}
		return v, nil
	}

	var out strings.Builder
	rest := s
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			out.WriteString(rest)
			break
		}
		end := strings.Index(rest[start:], "}")
		if end < 0 {
			return nil, exprErr(path, rest[start:], fmt.Errorf("unterminated expression"))
		}
		out.WriteString(rest[:start])
		src := strings.TrimSpace(rest[start+2 : start+end])
		v, err := p.run(src, env)
		if err != nil {
			return nil, exprErr(path, src, err)
		}
		out.WriteString(format(v))
		rest = rest[start+end+1:]
	}
	return out.String(), nil
}

func wholeExpr(s string) (string, bool) {
	if !strings.HasPrefix(s, "${") || !strings.HasSuffix(s, "}") {
		return "", false
	}
	inner := s[2 : len(s)-1]
	if strings.Contains(inner, "${") || strings.Contains(inner, "}") {
		return "", false
	}
	return strings.TrimSpace(inner), true
}

func format(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := vdom.Stringify(v); ok {
		return s
	}
	return fmt.Sprint(v)
}

func exprErr(path, src string, err error) error {
	return errors.New("E231").WithPath(path).WithDetailf("${%s}", src).Wrap(err)
}

// evalValue expands expressions in v, descending into lists and mappings.
func (p *programs) evalValue(v any, env map[string]any, path string) (any, error) {
	switch val := v.(type) {
	case string:
		return p.expand(val, env, path)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			r, err := p.evalValue(item, env, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			r, err := p.evalValue(item, env, path+"."+k)
			if err != nil {
				return nil, err
			}
			out[k] = r
		}
		return out, nil
	default:
		return v, nil
	}
}

// truthy follows expr's notion of false plus the empty values of YAML.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	}
	return true
}

// sequence converts an each value to a list of items.
func sequence(v any, path string) ([]any, error) {
	if v == nil {
		return nil, nil
	}
	if list, ok := v.([]any); ok {
		return list, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	case reflect.Int, reflect.Int64, reflect.Uint64:
		n := int(rv.Convert(reflect.TypeOf(0)).Int())
		out := make([]any, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, i)
		}
		return out, nil
	}
	return nil, errors.New("E231").WithPath(path).WithDetailf("each expects a list or a count, got %T", v)
}
