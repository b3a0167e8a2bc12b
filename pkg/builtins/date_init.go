package builtins

import (
	"fmt"
	"math"
	"time"

	timefmt "github.com/itchyny/timefmt-go"

	"vetro/pkg/vm"
)

// DateInitializer implements the Date constructor and Date.prototype.
// Instances store their epoch milliseconds in a hidden own property and
// format through strftime patterns.
type DateInitializer struct{}

func (d *DateInitializer) Name() string {
	return "Date"
}

func (d *DateInitializer) Priority() int {
	return PriorityDate
}

const dateTimestampProp = "__timestamp"

// epochTime converts stored epoch milliseconds to a UTC time.
func epochTime(millis float64) time.Time {
	return time.UnixMilli(int64(millis)).UTC()
}

func (d *DateInitializer) Init(ctx *RuntimeContext) error {
	realm := ctx.Realm
	dateProto := realm.DatePrototype.AsPlainObject()

	// The timestamp stays NaN for invalid dates, so methods read the raw
	// milliseconds and only convert to time.Time once they know it is
	// finite.
	requireMillis := func(this vm.Value, method string) (float64, error) {
		if holder := vm.PropertyHolder(this); holder != nil {
			if ts, ok := holder.GetOwn(dateTimestampProp); ok {
				return ts.ToFloat(), nil
			}
		}
		return 0, realm.NewTypeError("Date.prototype." + method + " requires that 'this' be a Date")
	}

	// Date.prototype.getTime() / valueOf()
	for _, name := range []string{"getTime", "valueOf"} {
		name := name
		dateProto.SetOwnNonEnumerable(name, vm.NewNativeFunction(0, false, name, func(this vm.Value, args []vm.Value) (vm.Value, error) {
			millis, err := requireMillis(this, name)
			if err != nil {
				return vm.Undefined, err
			}
			return vm.NumberValue(millis), nil
		}))
	}

	// Component getters. getMonth and getDay are zero-based; all of them
	// return NaN for an invalid date.
	components := []struct {
		name string
		read func(t time.Time) int
	}{
		{"getFullYear", func(t time.Time) int { return t.Year() }},
		{"getMonth", func(t time.Time) int { return int(t.Month()) - 1 }},
		{"getDate", func(t time.Time) int { return t.Day() }},
		{"getDay", func(t time.Time) int { return int(t.Weekday()) }},
		{"getHours", func(t time.Time) int { return t.Hour() }},
		{"getMinutes", func(t time.Time) int { return t.Minute() }},
		{"getSeconds", func(t time.Time) int { return t.Second() }},
		{"getMilliseconds", func(t time.Time) int { return t.Nanosecond() / 1e6 }},
	}
	for _, part := range components {
		name := part.name
		read := part.read
		dateProto.SetOwnNonEnumerable(name, vm.NewNativeFunction(0, false, name, func(this vm.Value, args []vm.Value) (vm.Value, error) {
			millis, err := requireMillis(this, name)
			if err != nil {
				return vm.Undefined, err
			}
			if math.IsNaN(millis) {
				return vm.NaN, nil
			}
			return vm.IntegerValue(int32(read(epochTime(millis)))), nil
		}))
	}

	// Date.prototype.toISOString()
	dateProto.SetOwnNonEnumerable("toISOString", vm.NewNativeFunction(0, false, "toISOString", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		millis, err := requireMillis(this, "toISOString")
		if err != nil {
			return vm.Undefined, err
		}
		if math.IsNaN(millis) {
			return vm.Undefined, realm.NewRangeError("Invalid time value")
		}
		t := epochTime(millis)
		base := timefmt.Format(t, "%Y-%m-%dT%H:%M:%S")
		return vm.NewString(base + fmt.Sprintf(".%03dZ", t.Nanosecond()/1e6)), nil
	}))

	// Date.prototype.toString()
	dateProto.SetOwnNonEnumerable("toString", vm.NewNativeFunction(0, false, "toString", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		millis, err := requireMillis(this, "toString")
		if err != nil {
			return vm.Undefined, err
		}
		if math.IsNaN(millis) {
			return vm.NewString("Invalid Date"), nil
		}
		return vm.NewString(timefmt.Format(epochTime(millis), "%a %b %d %Y %H:%M:%S GMT+0000 (Coordinated Universal Time)")), nil
	}))

	// Date.prototype.toUTCString()
	dateProto.SetOwnNonEnumerable("toUTCString", vm.NewNativeFunction(0, false, "toUTCString", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		millis, err := requireMillis(this, "toUTCString")
		if err != nil {
			return vm.Undefined, err
		}
		if math.IsNaN(millis) {
			return vm.NewString("Invalid Date"), nil
		}
		return vm.NewString(timefmt.Format(epochTime(millis), "%a, %d %b %Y %H:%M:%S GMT")), nil
	}))

	// Date(), Date(millis), Date(isoString), Date(y, m, d, ...)
	dateCtor := vm.NewConstructorWithProps(7, true, "Date", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		stamp := vm.NaN
		switch {
		case len(args) == 0:
			stamp = vm.NumberValue(float64(time.Now().UnixMilli()))
		case len(args) == 1 && args[0].IsNumber():
			stamp = args[0]
		case len(args) == 1:
			if parsed, err := parseDateString(args[0].ToString()); err == nil {
				stamp = vm.NumberValue(float64(parsed.UnixMilli()))
			}
		default:
			year := int(args[0].ToFloat())
			month := 0
			if len(args) > 1 {
				month = int(args[1].ToFloat())
			}
			day := 1
			if len(args) > 2 {
				day = int(args[2].ToFloat())
			}
			hour, minute, sec, millis := 0, 0, 0, 0
			if len(args) > 3 {
				hour = int(args[3].ToFloat())
			}
			if len(args) > 4 {
				minute = int(args[4].ToFloat())
			}
			if len(args) > 5 {
				sec = int(args[5].ToFloat())
			}
			if len(args) > 6 {
				millis = int(args[6].ToFloat())
			}
			t := time.Date(year, time.Month(month+1), day, hour, minute, sec, millis*1e6, time.UTC)
			stamp = vm.NumberValue(float64(t.UnixMilli()))
		}
		inst := vm.NewObject(realm.DatePrototype).AsPlainObject()
		inst.SetOwnNonEnumerable(dateTimestampProp, stamp)
		return vm.NewValueFromPlainObject(inst), nil
	})
	ctorProps := dateCtor.AsNativeFunction().Props()

	// Date.now()
	ctorProps.SetOwnNonEnumerable("now", vm.NewNativeFunction(0, false, "now", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return vm.NumberValue(float64(time.Now().UnixMilli())), nil
	}))

	// Date.parse(str)
	ctorProps.SetOwnNonEnumerable("parse", vm.NewNativeFunction(1, false, "parse", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		parsed, err := parseDateString(argAt(args, 0).ToString())
		if err != nil {
			return vm.NaN, nil
		}
		return vm.NumberValue(float64(parsed.UnixMilli())), nil
	}))

	// Date.UTC(y, m, d, ...)
	ctorProps.SetOwnNonEnumerable("UTC", vm.NewNativeFunction(7, true, "UTC", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if len(args) == 0 {
			return vm.NaN, nil
		}
		year := int(args[0].ToFloat())
		month, day := 0, 1
		if len(args) > 1 {
			month = int(args[1].ToFloat())
		}
		if len(args) > 2 {
			day = int(args[2].ToFloat())
		}
		t := time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.UTC)
		return vm.NumberValue(float64(t.UnixMilli())), nil
	}))

	f := false
	ctorProps.DefineOwnProperty("prototype", realm.DatePrototype, &f, &f, &f)
	dateProto.SetOwnNonEnumerable("constructor", dateCtor)

	return ctx.DefineGlobal("Date", dateCtor)
}

// parseDateString accepts the ISO forms Date.parse must understand plus
// the RFC1123 shape toUTCString emits.
func parseDateString(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	layouts := []string{
		"%Y-%m-%dT%H:%M:%S",
		"%Y-%m-%d",
		"%a, %d %b %Y %H:%M:%S GMT",
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := timefmt.Parse(s, layout)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
