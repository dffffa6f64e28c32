package macro

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryLookupAndAliases(t *testing.T) {
	reg, err := NewRegistry(Builtins()...)
	require.NoError(t, err)

	def, ok := reg.Lookup("name")
	require.True(t, ok)
	require.IsType(t, NameOf{}, def.Expander)

	_, ok = reg.Lookup("nameOf")
	require.False(t, ok)
	_, ok = reg.Lookup("selector")
	require.False(t, ok)

	aliased, err := reg.WithAliases(map[string]string{"nameOf": "name", "typeName": "nameOf"})
	require.NoError(t, err)
	def, ok = aliased.Lookup("nameOf")
	require.True(t, ok)
	require.Equal(t, "name", def.Name)
	def, ok = aliased.Lookup("typeName")
	require.True(t, ok)
	require.Equal(t, "name", def.Name)
	require.Equal(t, []string{"nameOf", "typeName"}, aliased.AliasesOf("name"))

	// the original stays untouched
	_, ok = reg.Lookup("nameOf")
	require.False(t, ok)
	require.NotEqual(t, reg.Fingerprint(), aliased.Fingerprint())
}

func TestRegistryRejectsBadDefinitions(t *testing.T) {
	_, err := NewRegistry(Definition{Name: "name", Expander: NameOf{}}, Definition{Name: "name", Expander: NameOf{}})
	require.ErrorContains(t, err, "registered twice")

	_, err = NewRegistry(Definition{Name: "", Expander: NameOf{}})
	require.Error(t, err)

	_, err = NewRegistry(Definition{Name: "x"})
	require.ErrorContains(t, err, "no expander")

	reg, err := NewRegistry(Builtins()...)
	require.NoError(t, err)
	_, err = reg.WithAliases(map[string]string{"foo": "missing"})
	require.ErrorContains(t, err, "unknown macro")
	_, err = reg.WithAliases(map[string]string{"name": "name"})
	require.ErrorContains(t, err, "shadows")
}

func TestRegistryFingerprintStable(t *testing.T) {
	a, err := NewRegistry(Builtins()...)
	require.NoError(t, err)
	b, err := NewRegistry(Builtins()...)
	require.NoError(t, err)
	require.Equal(t, a.Fingerprint(), b.Fingerprint())
	require.Len(t, a.Fingerprint(), 16)
	require.Len(t, a.Definitions(), 1)
}
