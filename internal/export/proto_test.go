package export

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solatis/querytree/internal/query"
)

func TestToProto_MatchesStructuredJSON(t *testing.T) {
	f := twoRootForest()
	f[0].Node.Children = append(f[0].Node.Children,
		query.Child(query.And, rule("r4", "age", "lt", query.NumberValue(2.5))),
		query.Child(query.Or, query.Group{ID: "g3"}),
	)

	list, err := ToProto(f)
	require.NoError(t, err)

	raw, err := query.MarshalStructured(f)
	require.NoError(t, err)
	var want []any
	require.NoError(t, json.Unmarshal(raw, &want))

	assert.Equal(t, want, list.AsSlice())
}

func TestToProto_Empty(t *testing.T) {
	list, err := ToProto(nil)
	require.NoError(t, err)
	assert.Empty(t, list.GetValues())
}

func TestToProto_FirstConnectorDropped(t *testing.T) {
	f := query.Forest{query.Root(query.Or, query.Group{ID: "g"})}

	list, err := ToProto(f)
	require.NoError(t, err)
	require.Len(t, list.GetValues(), 1)

	fields := list.GetValues()[0].GetStructValue().GetFields()
	assert.NotContains(t, fields, "connector")
	assert.Equal(t, "group", fields["type"].GetStringValue())
}
