package base

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeFQN_StripsGenerics(t *testing.T) {
	assert.Equal(t, "List.add", NormalizeFQN("List<String>.add"))
	assert.Equal(t, "Map.get", NormalizeFQN("Map<K, List<V>>.get"))
}

func TestNormalizeFQN_StripsLocationSuffix(t *testing.T) {
	assert.Equal(t, "pkg.Cls.method", NormalizeFQN("pkg.Cls.method:42"))
}

func TestNormalizeFQN_StripsAnonymousClassSuffix(t *testing.T) {
	assert.Equal(t, "pkg.Outer", NormalizeFQN("pkg.Outer$1"))
	assert.Equal(t, "pkg.Outer.run", NormalizeFQN("pkg.Outer$1.run"))
}

func TestNormalizeFQN_KeepsNamedNestedClasses(t *testing.T) {
	assert.Equal(t, "module.func$Local", NormalizeFQN("module.func$Local"))
}

func TestTrimImportClause(t *testing.T) {
	assert.Equal(t, "a.b.C", TrimImportClause("import a.b.C;", "import"))
	assert.Equal(t, "fmt", TrimImportClause(`"fmt"`, "import"))
	assert.Equal(t, "System.Text", TrimImportClause("using System.Text;", "using static", "using"))
}

func TestStripParamNames(t *testing.T) {
	assert.Equal(t, "(int,int)", StripParamNames("(int a, int b)"))
	assert.Equal(t, "(constchar*,size_t)", StripParamNames("(const char *name, size_t len)"))
	assert.Equal(t, "()", StripParamNames("()"))
	assert.Equal(t, "(int)", StripParamNames("(int)"))
}
