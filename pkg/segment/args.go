package segment

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// decodeArgs fills out from a config args table. Unknown keys are errors so
// typos surface in `promptline current-config` rather than being ignored.
func decodeArgs(kind string, raw map[string]any, out any) error {
	if len(raw) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		TagName:          "args",
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("segment %s: %w", kind, err)
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("segment %s: args: %w", kind, err)
	}
	return nil
}
