package builtins

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"vetro/pkg/vm"
)

// JSONInitializer implements the JSON namespace object.
type JSONInitializer struct{}

func (j *JSONInitializer) Name() string {
	return "JSON"
}

func (j *JSONInitializer) Priority() int {
	return PriorityJSON
}

func (j *JSONInitializer) Init(ctx *RuntimeContext) error {
	realm := ctx.Realm
	jsonObj := vm.NewObject(realm.ObjectPrototype).AsPlainObject()

	// JSON.parse(text, reviver)
	jsonObj.SetOwnNonEnumerable("parse", vm.NewNativeFunction(2, false, "parse", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		text := argAt(args, 0).ToString()
		dec := json.NewDecoder(strings.NewReader(text))
		dec.UseNumber()
		parsed, err := decodeJSONValue(realm, dec)
		if err != nil {
			return vm.Undefined, realm.NewSyntaxError(jsonParseErrorText(err))
		}
		if _, err := dec.Token(); err != io.EOF {
			return vm.Undefined, realm.NewSyntaxError("Unexpected non-whitespace character after JSON data")
		}
		reviver := argAt(args, 1)
		if !reviver.IsCallable() {
			return parsed, nil
		}
		root := vm.NewObject(realm.ObjectPrototype).AsPlainObject()
		root.SetOwn("", parsed)
		return reviveWalk(realm, vm.NewValueFromPlainObject(root), "", reviver)
	}))

	// JSON.stringify(value, replacer, space)
	jsonObj.SetOwnNonEnumerable("stringify", vm.NewNativeFunction(3, false, "stringify", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		s := &jsonStringifier{
			realm: realm,
			seen:  make(map[*vm.PlainObject]bool),
		}
		replacer := argAt(args, 1)
		if replacer.IsCallable() {
			s.replacerFn = replacer
		} else if holder := vm.PropertyHolder(replacer); holder != nil && isArrayValue(realm, replacer) {
			s.keep = make(map[string]bool)
			for i := 0; i < arrayLength(holder); i++ {
				if key, ok := holder.GetOwn(strconv.Itoa(i)); ok && !key.IsUndefined() {
					s.keep[key.ToString()] = true
				}
			}
		}
		switch space := argAt(args, 2); {
		case space.IsNumber():
			n := int(space.ToFloat())
			if n > 10 {
				n = 10
			}
			if n > 0 {
				s.gap = strings.Repeat(" ", n)
			}
		case space.IsString():
			gap := space.AsString()
			if len(gap) > 10 {
				gap = gap[:10]
			}
			s.gap = gap
		}
		wrapper := vm.NewObject(realm.ObjectPrototype).AsPlainObject()
		wrapper.SetOwn("", argAt(args, 0))
		text, present, err := s.str("", argAt(args, 0), vm.NewValueFromPlainObject(wrapper))
		if err != nil {
			return vm.Undefined, err
		}
		if !present {
			return vm.Undefined, nil
		}
		return vm.NewString(text), nil
	}))

	f := false
	tr := true
	jsonObj.DefineOwnPropertyByKey(vm.NewSymbolKey(realm.SymbolToStringTag), vm.NewString("JSON"), &f, &f, &tr)

	return ctx.DefineGlobal("JSON", vm.NewValueFromPlainObject(jsonObj))
}

// decodeJSONValue builds a realm value from the decoder's token stream,
// walking containers recursively so property order follows the source
// text.
func decodeJSONValue(realm *vm.Realm, dec *json.Decoder) (vm.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return vm.Undefined, err
	}
	return tokenToValue(realm, dec, tok)
}

func tokenToValue(realm *vm.Realm, dec *json.Decoder, tok json.Token) (vm.Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := vm.NewObject(realm.ObjectPrototype).AsPlainObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return vm.Undefined, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return vm.Undefined, &json.SyntaxError{}
				}
				val, err := decodeJSONValue(realm, dec)
				if err != nil {
					return vm.Undefined, err
				}
				obj.SetOwn(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return vm.Undefined, err
			}
			return vm.NewValueFromPlainObject(obj), nil
		default: // '['
			var elems []vm.Value
			for dec.More() {
				val, err := decodeJSONValue(realm, dec)
				if err != nil {
					return vm.Undefined, err
				}
				elems = append(elems, val)
			}
			if _, err := dec.Token(); err != nil {
				return vm.Undefined, err
			}
			return newArrayValue(realm, elems), nil
		}
	case string:
		return vm.NewString(t), nil
	case json.Number:
		fv, err := t.Float64()
		if err != nil {
			return vm.Undefined, err
		}
		return vm.NumberValue(fv), nil
	case bool:
		return vm.BooleanValue(t), nil
	default:
		return vm.Null, nil
	}
}

func jsonParseErrorText(err error) string {
	if syn, ok := err.(*json.SyntaxError); ok && syn.Offset > 0 {
		return "Unexpected token in JSON at position " + strconv.FormatInt(syn.Offset-1, 10)
	}
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return "Unexpected end of JSON input"
	}
	return "Unexpected token in JSON"
}

// reviveWalk applies a reviver bottom-up, deleting properties the
// reviver maps to undefined.
func reviveWalk(realm *vm.Realm, parent vm.Value, key string, reviver vm.Value) (vm.Value, error) {
	value, err := realm.Get(parent, key)
	if err != nil {
		return vm.Undefined, err
	}
	if holder := vm.PropertyHolder(value); holder != nil {
		for _, name := range holder.OwnPropertyNames() {
			revived, err := reviveWalk(realm, value, name, reviver)
			if err != nil {
				return vm.Undefined, err
			}
			if revived.IsUndefined() {
				holder.DeleteOwn(name)
			} else {
				holder.SetOwn(name, revived)
			}
		}
	}
	return realm.Call(reviver, parent, []vm.Value{vm.NewString(key), value})
}

type jsonStringifier struct {
	realm      *vm.Realm
	gap        string
	indent     string
	replacerFn vm.Value
	keep       map[string]bool
	seen       map[*vm.PlainObject]bool
}

// str serializes one value. The second result is false when the value
// does not serialize at all (undefined, functions, symbols).
func (s *jsonStringifier) str(key string, value, parent vm.Value) (string, bool, error) {
	if holder := vm.PropertyHolder(value); holder != nil {
		toJSON, err := s.realm.Get(value, "toJSON")
		if err != nil {
			return "", false, err
		}
		if toJSON.IsCallable() {
			value, err = s.realm.Call(toJSON, value, []vm.Value{vm.NewString(key)})
			if err != nil {
				return "", false, err
			}
		}
	}
	if s.replacerFn.IsCallable() && vm.PropertyHolder(parent) != nil {
		var err error
		value, err = s.realm.Call(s.replacerFn, parent, []vm.Value{vm.NewString(key), value})
		if err != nil {
			return "", false, err
		}
	}

	// Wrapper objects serialize as their primitive.
	if holder := vm.PropertyHolder(value); holder != nil {
		if prim, ok := holder.GetOwn("[[PrimitiveValue]]"); ok {
			value = prim
		}
	}

	switch {
	case value.IsNull():
		return "null", true, nil
	case value.IsBoolean():
		if value.AsBoolean() {
			return "true", true, nil
		}
		return "false", true, nil
	case value.IsString():
		return marshalJSONString(value.AsString()), true, nil
	case value.IsNumber():
		text := value.ToString()
		if text == "NaN" || text == "Infinity" || text == "-Infinity" {
			return "null", true, nil
		}
		return text, true, nil
	case value.IsCallable(), value.IsSymbol(), value.IsUndefined():
		return "", false, nil
	}
	holder := vm.PropertyHolder(value)
	if holder == nil {
		return "", false, nil
	}
	if s.seen[holder] {
		return "", false, s.realm.NewTypeError("Converting circular structure to JSON")
	}
	s.seen[holder] = true
	defer delete(s.seen, holder)

	if isArrayValue(s.realm, value) {
		return s.serializeArray(value, holder)
	}
	return s.serializeObject(value, holder)
}

func (s *jsonStringifier) serializeArray(value vm.Value, holder *vm.PlainObject) (string, bool, error) {
	stepback := s.indent
	s.indent += s.gap
	defer func() { s.indent = stepback }()

	length := arrayLength(holder)
	parts := make([]string, 0, length)
	for i := 0; i < length; i++ {
		elem, err := s.realm.Get(value, strconv.Itoa(i))
		if err != nil {
			return "", false, err
		}
		text, present, err := s.str(strconv.Itoa(i), elem, value)
		if err != nil {
			return "", false, err
		}
		if !present {
			text = "null"
		}
		parts = append(parts, text)
	}
	return s.wrap("[", parts, "]"), true, nil
}

func (s *jsonStringifier) serializeObject(value vm.Value, holder *vm.PlainObject) (string, bool, error) {
	stepback := s.indent
	s.indent += s.gap
	defer func() { s.indent = stepback }()

	var parts []string
	for _, name := range holder.OwnPropertyNames() {
		if s.keep != nil && !s.keep[name] {
			continue
		}
		// Enumerable own properties only, accessors included.
		_, _, enumerable, _, exists := holder.GetOwnDescriptorByKey(vm.NewStringKey(name))
		if !exists {
			_, _, enumerable, _, exists = holder.GetOwnAccessorByKey(vm.NewStringKey(name))
		}
		if !exists || !enumerable {
			continue
		}
		propValue, err := s.realm.Get(value, name)
		if err != nil {
			return "", false, err
		}
		text, present, err := s.str(name, propValue, value)
		if err != nil {
			return "", false, err
		}
		if !present {
			continue
		}
		sep := ":"
		if s.gap != "" {
			sep = ": "
		}
		parts = append(parts, marshalJSONString(name)+sep+text)
	}
	return s.wrap("{", parts, "}"), true, nil
}

func (s *jsonStringifier) wrap(open string, parts []string, closing string) string {
	if len(parts) == 0 {
		return open + closing
	}
	if s.gap == "" {
		return open + strings.Join(parts, ",") + closing
	}
	stepback := strings.TrimSuffix(s.indent, s.gap)
	var b strings.Builder
	b.WriteString(open)
	for i, part := range parts {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n")
		b.WriteString(s.indent)
		b.WriteString(part)
	}
	b.WriteString("\n")
	b.WriteString(stepback)
	b.WriteString(closing)
	return b.String()
}

func marshalJSONString(s string) string {
	encoded, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(encoded)
}
