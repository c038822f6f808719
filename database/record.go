package database

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record представляет плоскую запись коллекции: имя поля -> скалярное значение
type Record map[string]Value

// Lookup ищет поле сначала по точному имени, затем без учета регистра
func (r Record) Lookup(name string) (Value, bool) {
	if v, ok := r[name]; ok {
		return v, true
	}
	for k, v := range r {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return Value{}, false
}

// Matches сообщает, присутствует ли в записи каждое поле запроса с равным значением.
// Пустой запрос подходит под любую запись.
func (r Record) Matches(query Record) bool {
	for k, want := range query {
		got, ok := r.Lookup(k)
		if !ok || !got.Equal(want) {
			return false
		}
	}
	return true
}

// Clone возвращает поверхностную копию записи. Value неизменяем, поэтому копии достаточно.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merge переносит поля patch в запись, перезаписывая совпадающие ключи
func (r Record) Merge(patch Record) {
	for k, v := range patch {
		if existing := r.keyFor(k); existing != "" {
			r[existing] = v
			continue
		}
		r[k] = v
	}
}

func (r Record) keyFor(name string) string {
	if _, ok := r[name]; ok {
		return name
	}
	for k := range r {
		if strings.EqualFold(k, name) {
			return k
		}
	}
	return ""
}

// Reader читает типизированные поля записи и запоминает первую ошибку приведения.
// Отсутствующее поле дает нулевое значение.
type Reader struct {
	rec Record
	err error
}

// NewReader создает Reader для записи
func NewReader(rec Record) *Reader {
	return &Reader{rec: rec}
}

// Err возвращает первую ошибку приведения
func (r *Reader) Err() error { return r.err }

func (r *Reader) fail(field string, err error) {
	if r.err != nil {
		return
	}
	var ce *CoercionError
	if errors.As(err, &ce) {
		ce.Field = field
	}
	r.err = err
}

func (r *Reader) String(field string) string {
	v, ok := r.rec.Lookup(field)
	if !ok {
		return ""
	}
	s, err := v.AsString()
	if err != nil {
		r.fail(field, err)
	}
	return s
}

func (r *Reader) Decimal(field string) decimal.Decimal {
	v, ok := r.rec.Lookup(field)
	if !ok {
		return decimal.Zero
	}
	d, err := v.AsDecimal()
	if err != nil {
		r.fail(field, err)
	}
	return d
}

func (r *Reader) Int(field string) int64 {
	v, ok := r.rec.Lookup(field)
	if !ok {
		return 0
	}
	n, err := v.AsInt()
	if err != nil {
		r.fail(field, err)
	}
	return n
}

func (r *Reader) Bool(field string) bool {
	v, ok := r.rec.Lookup(field)
	if !ok {
		return false
	}
	b, err := v.AsBool()
	if err != nil {
		r.fail(field, err)
	}
	return b
}

func (r *Reader) Time(field string) time.Time {
	v, ok := r.rec.Lookup(field)
	if !ok {
		return time.Time{}
	}
	t, err := v.AsTime()
	if err != nil {
		r.fail(field, err)
	}
	return t
}
