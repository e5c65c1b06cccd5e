package codec

import (
	"testing"

	"github.com/permaweb/permaweb-go/utils"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var (
	camelKey = rapid.StringMatching(`[a-z][a-zA-Z0-9]{0,11}`)
	address  = rapid.StringMatching(`[a-zA-Z0-9_-]{43}`)
)

func TestRapidCamelRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		keys := rapid.SliceOfNDistinct(camelKey, 1, 8, rapid.ID[string]).Draw(t, "keys")
		obj := make(map[string]interface{}, len(keys))
		for i, key := range keys {
			if i%2 == 0 {
				obj[key] = rapid.String().Draw(t, "value")
				continue
			}
			obj[key] = map[string]interface{}{
				rapid.StringMatching(`[a-z][a-zA-Z]{0,5}`).Draw(t, "nestedKey"): rapid.Float64Range(-1e6, 1e6).Draw(t, "nestedValue"),
			}
		}

		require.Equal(t, obj, FromProcessCase(ToProcessCase(obj)))
	})
}

func TestRapidAddressShortCircuit(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		key := address.Draw(t, "key")
		value := address.Draw(t, "value")
		if !utils.CheckValidAddress(key) || !utils.CheckValidAddress(value) {
			t.Fatalf("generator produced an invalid address")
		}

		obj := map[string]interface{}{key: value, "owner": value}
		wire := ToProcessCase(obj).(map[string]interface{})
		require.Equal(t, value, wire[key])
		require.Equal(t, value, wire["Owner"])

		back := FromProcessCase(wire).(map[string]interface{})
		require.Equal(t, value, back[key])
		require.Equal(t, value, back["owner"])
	})
}

func TestRapidAddressShortCircuitNested(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		key := address.Draw(t, "key")
		value := address.Draw(t, "value")
		inArray := rapid.SliceOfN(rapid.Bool(), 1, 4).Draw(t, "levels")

		var obj interface{} = map[string]interface{}{key: value, "owner": value}
		for _, array := range inArray {
			if array {
				obj = []interface{}{obj}
			} else {
				obj = map[string]interface{}{"inner": obj}
			}
		}

		wire := ToProcessCase(obj)
		leaf := wire
		for i := len(inArray) - 1; i >= 0; i-- {
			if inArray[i] {
				leaf = leaf.([]interface{})[0]
			} else {
				leaf = leaf.(map[string]interface{})["Inner"]
			}
		}
		require.Equal(t, value, leaf.(map[string]interface{})[key])
		require.Equal(t, value, leaf.(map[string]interface{})["Owner"])

		require.Equal(t, obj, FromProcessCase(wire))
	})
}
