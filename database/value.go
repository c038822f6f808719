package database

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind определяет тип скалярного значения в записи
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value представляет скалярное значение поля записи.
// Числа хранятся как decimal, чтобы сравнение на равенство было точным.
type Value struct {
	kind Kind
	str  string
	num  decimal.Decimal
	b    bool
	t    time.Time
}

// Null возвращает пустое значение
func Null() Value { return Value{kind: KindNull} }

// String создает строковое значение
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number создает числовое значение
func Number(d decimal.Decimal) Value { return Value{kind: KindNumber, num: d} }

// Int создает числовое значение из целого
func Int(n int64) Value { return Value{kind: KindNumber, num: decimal.NewFromInt(n)} }

// Bool создает логическое значение
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Time создает значение времени, приведенное к UTC
func Time(t time.Time) Value { return Value{kind: KindTime, t: t.UTC()} }

// Kind возвращает тип значения
func (v Value) Kind() Kind { return v.kind }

// IsNull сообщает, является ли значение пустым
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString приводит значение к строке. Пустое значение дает "".
func (v Value) AsString() (string, error) {
	switch v.kind {
	case KindString:
		return v.str, nil
	case KindNull:
		return "", nil
	case KindTime:
		return v.t.Format(time.RFC3339Nano), nil
	}
	return "", &CoercionError{Want: KindString, Got: v.kind}
}

// AsDecimal приводит значение к decimal. Строки с цифрами не приводятся.
func (v Value) AsDecimal() (decimal.Decimal, error) {
	switch v.kind {
	case KindNumber:
		return v.num, nil
	case KindNull:
		return decimal.Zero, nil
	}
	return decimal.Zero, &CoercionError{Want: KindNumber, Got: v.kind}
}

// AsInt приводит значение к int64 без округления
func (v Value) AsInt() (int64, error) {
	switch v.kind {
	case KindNull:
		return 0, nil
	case KindNumber:
		if !v.num.IsInteger() {
			return 0, &CoercionError{Want: KindNumber, Got: v.kind, Detail: "not an integer: " + v.num.String()}
		}
		if !v.num.BigInt().IsInt64() {
			return 0, &CoercionError{Want: KindNumber, Got: v.kind, Detail: "out of int64 range: " + v.num.String()}
		}
		return v.num.IntPart(), nil
	}
	return 0, &CoercionError{Want: KindNumber, Got: v.kind}
}

// AsBool приводит значение к bool
func (v Value) AsBool() (bool, error) {
	switch v.kind {
	case KindBool:
		return v.b, nil
	case KindNull:
		return false, nil
	}
	return false, &CoercionError{Want: KindBool, Got: v.kind}
}

// AsTime приводит значение ко времени. Строка разбирается как RFC 3339.
func (v Value) AsTime() (time.Time, error) {
	switch v.kind {
	case KindTime:
		return v.t, nil
	case KindNull:
		return time.Time{}, nil
	case KindString:
		t, err := time.Parse(time.RFC3339Nano, v.str)
		if err != nil {
			return time.Time{}, &CoercionError{Want: KindTime, Got: v.kind, Detail: err.Error()}
		}
		return t.UTC(), nil
	}
	return time.Time{}, &CoercionError{Want: KindTime, Got: v.kind}
}

// Equal сравнивает значения. Числа сравниваются как decimal (500 == 500.00),
// время сравнивается со строкой в формате RFC 3339.
func (v Value) Equal(other Value) bool {
	if v.kind == KindTime || other.kind == KindTime {
		if v.kind == KindNull || other.kind == KindNull {
			return false
		}
		a, errA := v.AsTime()
		b, errB := other.AsTime()
		return errA == nil && errB == nil && a.Equal(b)
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindNumber:
		return v.num.Equal(other.num)
	case KindBool:
		return v.b == other.b
	}
	return true
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num.String()
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindTime:
		return v.t.Format(time.RFC3339Nano)
	}
	return "null"
}

// MarshalJSON записывает число без кавычек, время как строку RFC 3339
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return []byte(v.num.String()), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindTime:
		return json.Marshal(v.t.Format(time.RFC3339Nano))
	}
	return []byte("null"), nil
}

// UnmarshalJSON принимает только скаляры: вложенные объекты и массивы запрещены
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty value")
	}
	switch data[0] {
	case 'n':
		*v = Null()
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
		return nil
	case '{', '[':
		return fmt.Errorf("nested values are not supported: %.20s", data)
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", data, err)
	}
	*v = Number(d)
	return nil
}
