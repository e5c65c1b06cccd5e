package codec

import (
	"testing"

	"github.com/permaweb/permaweb-go/types"
	"github.com/stretchr/testify/require"
)

const testAddress = "M9G2B9Uvk8VK1pxloESeT4XScguRKSzLyd4as1HFOJ8"

func TestToProcessCase(t *testing.T) {
	in := map[string]interface{}{
		"userName": "x",
		"nested": map[string]interface{}{
			"displayName": "y",
			testAddress:   map[string]interface{}{"balance": "1"},
		},
		"list":    []interface{}{map[string]interface{}{"a": 1.0}, "b"},
		"owner":   testAddress,
		"Already": true,
	}

	out := ToProcessCase(in).(map[string]interface{})
	require.Equal(t, "x", out["UserName"])
	require.Equal(t, testAddress, out["Owner"])
	require.Equal(t, true, out["Already"])

	nested := out["Nested"].(map[string]interface{})
	require.Equal(t, "y", nested["DisplayName"])
	require.Contains(t, nested, testAddress)
	require.Equal(t, map[string]interface{}{"Balance": "1"}, nested[testAddress])

	list := out["List"].([]interface{})
	require.Equal(t, map[string]interface{}{"A": 1.0}, list[0])
	require.Equal(t, "b", list[1])
}

func TestFromProcessCase(t *testing.T) {
	in := map[string]interface{}{
		"Store":        map[string]interface{}{"Name": "Sample Zone"},
		"Content-Type": "text/plain",
		testAddress:    "1",
		"Assets":       []interface{}{},
	}

	out := FromProcessCase(in).(map[string]interface{})
	require.Equal(t, map[string]interface{}{"name": "Sample Zone"}, out["store"])
	require.Equal(t, "text/plain", out["Content-Type"])
	require.Equal(t, "1", out[testAddress])
	require.Equal(t, []interface{}{}, out["assets"])
}

func TestHyphenAsymmetry(t *testing.T) {
	in := map[string]interface{}{"data-source": "a"}
	wire := ToProcessCase(in).(map[string]interface{})
	require.Contains(t, wire, "Data-source")

	back := FromProcessCase(wire).(map[string]interface{})
	require.Contains(t, back, "Data-source")
	require.NotContains(t, back, "data-source")
}

func TestKeyCollision(t *testing.T) {
	for i := 0; i < 50; i++ {
		back := FromProcessCase(map[string]interface{}{"Name": "upper", "name": "lower"})
		require.Equal(t, map[string]interface{}{"name": "lower"}, back)

		wire := ToProcessCase(map[string]interface{}{"Name": "upper", "name": "lower"})
		require.Equal(t, map[string]interface{}{"Name": "upper"}, wire)

		tags := FromProcessCase(map[string]string{"Title": "upper", "title": "lower"})
		require.Equal(t, map[string]interface{}{"title": "lower"}, tags)
	}
}

func TestScalarsPassThrough(t *testing.T) {
	require.Equal(t, "abc", ToProcessCase("abc"))
	require.Equal(t, 1.5, FromProcessCase(1.5))
	require.Nil(t, ToProcessCase(nil))
}

func TestBootTag(t *testing.T) {
	require.Equal(t, types.Tag{Name: "Bootloader-Username", Value: "bob"}, BootTag("username", "bob"))
	require.Equal(t, types.Tag{Name: "Bootloader-DisplayName", Value: "Bob"}, BootTag("DisplayName", "Bob"))
}

func TestTagsToObject(t *testing.T) {
	obj := TagsToObject([]types.Tag{
		{Name: "Action", Value: "Info-Response"},
		{Name: "Name", Value: "first"},
		{Name: "Name", Value: "second"},
	})
	require.Equal(t, map[string]interface{}{"Action": "Info-Response", "Name": "second"}, obj)
}

func TestObjectToTags(t *testing.T) {
	tags, err := ObjectToTags(map[string]interface{}{
		"Topic": []string{"a", "b"},
		"Count": 2,
		"Name":  "n",
		"Skip":  nil,
	})
	require.NoError(t, err)
	require.Equal(t, []types.Tag{
		{Name: "Count", Value: "2"},
		{Name: "Name", Value: "n"},
		{Name: "Topic", Value: "a"},
		{Name: "Topic", Value: "b"},
	}, tags)
}

func TestNormalizeCopiesContainers(t *testing.T) {
	obj := map[string]interface{}{"list": []interface{}{"a"}}
	normalized, err := Normalize(obj)
	require.NoError(t, err)
	require.Equal(t, obj, normalized)

	AsObject(normalized)["list"] = nil
	require.Equal(t, []interface{}{"a"}, obj["list"])
}

func TestDecode(t *testing.T) {
	var zone types.Zone
	err := Decode(map[string]interface{}{
		"store":  map[string]interface{}{"name": "z"},
		"assets": []interface{}{map[string]interface{}{"id": testAddress, "balance": 1.0}},
	}, &zone)
	require.NoError(t, err)
	require.Equal(t, "z", zone.Store["name"])
	require.Len(t, zone.Assets, 1)
	require.Equal(t, types.Quantity("1"), zone.Assets[0].Balance)

	normalized, err := Normalize(types.Tag{Name: "a", Value: "b"})
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"name": "a", "value": "b"}, normalized)
}
