package python

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/codelens/pkg/domain"
	"github.com/specvital/codelens/pkg/parser"
	"github.com/specvital/codelens/pkg/parser/strategies"
	"github.com/specvital/codelens/pkg/source"
)

const sampleModule = `import functools

def outer(fn):
    @functools.wraps(fn)
    def inner(*args, **kwargs):
        print("calling", fn.__name__)
        return fn(*args, **kwargs)
    return inner

@outer
@retry(times=3)
def fetch(url):
    print(url, *extra, sep="")
    return url

class Service:
    """Service docstring."""

    def __init__(self, name):
        self.name = name

    @staticmethod
    def build():
        def helper():
            return 1
        return helper()

print()
`

func extract(t *testing.T, e *Extractor, content string) *domain.Result {
	t.Helper()

	file, err := source.NewFile("sample.py", []byte(content))
	require.NoError(t, err)

	result, err := e.Extract(context.Background(), file)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func names(elements []domain.Element) []string {
	out := make([]string, 0, len(elements))
	for _, e := range elements {
		out = append(out, e.Name)
	}
	return out
}

func TestExtractor_Metadata(t *testing.T) {
	t.Parallel()

	e := NewExtractor()

	assert.Equal(t, "python", e.Name())
	assert.Equal(t, domain.LanguagePython, e.Language())
	assert.Equal(t, []string{".py"}, e.Extensions())
}

func TestExtractor_RegistersItself(t *testing.T) {
	found := strategies.DefaultRegistry().Find(".py")

	require.NotNil(t, found)
	assert.Equal(t, "python", found.Name())
}

func TestExtractor_SingleFunction(t *testing.T) {
	t.Parallel()

	result := extract(t, NewExtractor(), "def f():\n    pass\n")

	require.Len(t, result.Functions, 1)
	fn := result.Functions[0]
	assert.Equal(t, "f", fn.Name)
	assert.Equal(t, domain.KindFunction, fn.Kind)
	assert.Equal(t, 1, fn.LineStart)
	assert.Equal(t, 2, fn.LineEnd)
	assert.Equal(t, "def f():\n    pass", fn.Source)
	assert.Empty(t, result.Classes)
	assert.Empty(t, result.Decorators)
	assert.Nil(t, result.Interfaces)
	assert.False(t, result.HasInterfaces())
}

func TestExtractor_Decorator(t *testing.T) {
	t.Parallel()

	result := extract(t, NewExtractor(), "@dec\ndef g(): pass\n")

	require.Len(t, result.Decorators, 1)
	assert.Equal(t, domain.Decorator{Name: "dec", Line: 1, Parent: "g"}, result.Decorators[0])

	require.Len(t, result.Functions, 1)
	fn := result.Functions[0]
	assert.Equal(t, 2, fn.LineStart)
	assert.Equal(t, 2, fn.LineEnd)
	assert.Equal(t, []domain.DecoratorRef{{Name: "dec", Line: 1}}, fn.Decorators)
}

func TestExtractor_SampleModule(t *testing.T) {
	t.Parallel()

	result := extract(t, NewExtractor(), sampleModule)

	t.Run("should collect functions outside classes", func(t *testing.T) {
		assert.Equal(t, []string{"outer", "inner", "fetch"}, names(result.Functions))

		spans := [][2]int{{3, 8}, {5, 7}, {12, 14}}
		for i, fn := range result.Functions {
			assert.Equal(t, spans[i][0], fn.LineStart, fn.Name)
			assert.Equal(t, spans[i][1], fn.LineEnd, fn.Name)
		}
	})

	t.Run("should collect classes with methods", func(t *testing.T) {
		require.Len(t, result.Classes, 1)
		class := result.Classes[0]
		assert.Equal(t, "Service", class.Name)
		assert.Equal(t, domain.KindClass, class.Kind)
		assert.Equal(t, 16, class.LineStart)
		assert.Equal(t, 26, class.LineEnd)
		assert.Equal(t, []string{"__init__", "build", "helper"}, names(class.Methods))

		for _, m := range class.Methods {
			assert.Equal(t, domain.KindMethod, m.Kind)
			assert.True(t, class.Contains(m.LineStart), m.Name)
			assert.True(t, class.Contains(m.LineEnd), m.Name)
		}
	})

	t.Run("should not list methods as functions", func(t *testing.T) {
		for _, fn := range result.Functions {
			assert.NotContains(t, []string{"__init__", "build", "helper"}, fn.Name)
		}
	})

	t.Run("should resolve decorator names and owners", func(t *testing.T) {
		assert.Equal(t, []domain.Decorator{
			{Name: "outer", Line: 10, Parent: "fetch"},
			{Name: "retry", Line: 11, Parent: "fetch"},
			{Name: "staticmethod", Line: 22, Parent: "build"},
		}, result.Decorators)
	})

	t.Run("should find exactly one owner per decorator", func(t *testing.T) {
		for _, dec := range result.Decorators {
			owners := 0
			for _, fn := range result.Functions {
				if fn.Name == dec.Parent {
					owners++
				}
			}
			for _, class := range result.Classes {
				for _, m := range class.Methods {
					if m.Name == dec.Parent {
						owners++
					}
				}
			}
			assert.Equal(t, 1, owners, dec.Name)
		}
	})

	t.Run("should track print calls with positional argument counts", func(t *testing.T) {
		assert.Equal(t, []domain.CallSite{
			{Name: "print", Line: 6, ArgCount: 2},
			{Name: "print", Line: 13, ArgCount: 2},
			{Name: "print", Line: 28, ArgCount: 0},
		}, result.CallSites)
	})

	t.Run("should slice element source from the file", func(t *testing.T) {
		fetch := result.Functions[2]
		assert.Equal(t, "def fetch(url):\n    print(url, *extra, sep=\"\")\n    return url", fetch.Source)
		assert.Equal(t, result.File().Slice(fetch.LineStart, fetch.LineEnd), fetch.Source)
	})
}

func TestExtractor_DecoratorForms(t *testing.T) {
	t.Parallel()

	content := `@app.route("/", methods=["GET"])
@handlers[0]
@cache
async def index():
    return "ok"
`
	result := extract(t, NewExtractor(), content)

	require.Len(t, result.Functions, 1)
	assert.Equal(t, "index", result.Functions[0].Name)
	assert.Equal(t, 4, result.Functions[0].LineStart)

	assert.Equal(t, []domain.Decorator{
		{Name: "cache", Line: 3, Parent: "index"},
	}, result.Decorators)
	assert.Equal(t, []domain.DecoratorRef{{Name: "cache", Line: 3}}, result.Functions[0].Decorators)
}

func TestExtractor_AttributeDecoratorsUnresolved(t *testing.T) {
	t.Parallel()

	content := "@app.route('/')\n@functools.wraps\n@dec\ndef h():\n    pass\n"
	result := extract(t, NewExtractor(), content)

	assert.Equal(t, []domain.Decorator{{Name: "dec", Line: 3, Parent: "h"}}, result.Decorators)
	require.Len(t, result.Functions, 1)
	assert.Equal(t, []domain.DecoratorRef{{Name: "dec", Line: 3}}, result.Functions[0].Decorators)
}

func TestExtractor_NestedClasses(t *testing.T) {
	t.Parallel()

	content := `class Outer:
    def a(self):
        pass

    class Inner:
        def b(self):
            pass
`
	result := extract(t, NewExtractor(), content)

	require.Len(t, result.Classes, 2)
	assert.Equal(t, "Outer", result.Classes[0].Name)
	assert.Equal(t, []string{"a", "b"}, names(result.Classes[0].Methods))
	assert.Equal(t, "Inner", result.Classes[1].Name)
	assert.Equal(t, []string{"b"}, names(result.Classes[1].Methods))
	assert.Equal(t, 5, result.Classes[1].LineStart)
	assert.Equal(t, 7, result.Classes[1].LineEnd)
	assert.Empty(t, result.Functions)

	for _, m := range result.Classes[0].Methods {
		assert.Equal(t, domain.KindMethod, m.Kind)
		assert.True(t, result.Classes[0].Contains(m.LineStart), m.Name)
	}
}

func TestExtractor_FunctionInsideInnerMethod(t *testing.T) {
	t.Parallel()

	content := `class Outer:
    class Inner:
        def run(self):
            def step():
                pass
            return step
`
	result := extract(t, NewExtractor(), content)

	require.Len(t, result.Classes, 2)
	assert.Equal(t, []string{"run", "step"}, names(result.Classes[0].Methods))
	assert.Equal(t, []string{"run", "step"}, names(result.Classes[1].Methods))
	assert.Empty(t, result.Functions)
}

func TestExtractor_TrackedCalls(t *testing.T) {
	t.Parallel()

	content := "print(1)\nlog(1, 2, key=3)\nlog(x for x in y)\nobj.log(1)\n"

	t.Run("should track configured callees only", func(t *testing.T) {
		result := extract(t, NewExtractor(WithTrackedCalls("log")), content)

		assert.Equal(t, []domain.CallSite{
			{Name: "log", Line: 2, ArgCount: 2},
			{Name: "log", Line: 3, ArgCount: 1},
		}, result.CallSites)
	})

	t.Run("should track nothing when no callee is configured", func(t *testing.T) {
		result := extract(t, NewExtractor(WithTrackedCalls()), content)

		assert.NotNil(t, result.CallSites)
		assert.Empty(t, result.CallSites)
	})
}

func TestExtractor_ParseError(t *testing.T) {
	t.Parallel()

	file, err := source.NewFile("broken.py", []byte("def ok():\n    pass\n\ndef broken(:\n    pass\n"))
	require.NoError(t, err)

	result, err := NewExtractor().Extract(context.Background(), file)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, parser.ErrParse))

	var parseErr *parser.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "broken.py", parseErr.Path)
	assert.Positive(t, parseErr.Line)
	assert.Contains(t, err.Error(), "broken.py")
}

func TestExtractor_EmptyFile(t *testing.T) {
	t.Parallel()

	result := extract(t, NewExtractor(), "")

	assert.Empty(t, result.Functions)
	assert.Empty(t, result.Classes)
	assert.Empty(t, result.Decorators)
	assert.Empty(t, result.CallSites)
}

func TestExtractor_Idempotent(t *testing.T) {
	t.Parallel()

	e := NewExtractor()
	first := extract(t, e, sampleModule)
	second := extract(t, e, sampleModule)

	assert.Equal(t, first.Functions, second.Functions)
	assert.Equal(t, first.Classes, second.Classes)
	assert.Equal(t, first.Decorators, second.Decorators)
	assert.Equal(t, first.CallSites, second.CallSites)
}
