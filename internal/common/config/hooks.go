package config

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Percentage is a ratio in [0, 1]. Config files may spell it either as a float ("0.01") or as a
// percentage string ("1%").
type Percentage float64

// CustomHooks must be passed to every viper Unmarshal call. Setting a decode hook replaces viper's
// defaults, so the duration and slice hooks are composed back in here.
var CustomHooks = []viper.DecoderConfigOption{
	viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.TextUnmarshallerHookFunc(),
		PercentageHookFunc(),
	)),
}

func PercentageHookFunc() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		// check that src and target types are valid
		if f.Kind() != reflect.String || t != reflect.TypeOf(Percentage(0)) {
			return data, nil
		}
		return ParsePercentage(data.(string))
	}
}

func ParsePercentage(s string) (Percentage, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "%") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, errors.Wrapf(err, "invalid percentage %q", s)
		}
		return Percentage(v / 100), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid ratio %q", s)
	}
	return Percentage(v), nil
}

// UnmarshalKey decodes the viper sub-tree at key into out using CustomHooks.
func UnmarshalKey(key string, out interface{}) error {
	if !viper.IsSet(key) {
		return nil
	}
	return errors.WithStack(viper.UnmarshalKey(key, out, CustomHooks...))
}
