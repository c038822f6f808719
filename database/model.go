package database

// Decoder отображает запись на типизированную сущность
type Decoder[T any] func(Record) (T, error)

// Model предоставляет типизированный CRUD над одной коллекцией.
// key - имя поля, идентифицирующего запись (Username, Email, Number...).
type Model[T any] struct {
	db         *Database
	collection string
	key        string
	decode     Decoder[T]
}

// NewModel создает новый экземпляр Model
func NewModel[T any](db *Database, collection, key string, decode Decoder[T]) *Model[T] {
	return &Model[T]{
		db:         db,
		collection: collection,
		key:        key,
		decode:     decode,
	}
}

// Collection возвращает имя коллекции
func (m *Model[T]) Collection() string { return m.collection }

// Key возвращает имя ключевого поля
func (m *Model[T]) Key() string { return m.key }

// Database возвращает хранилище модели
func (m *Model[T]) Database() *Database { return m.db }

// FromRecord отображает запись на T
func (m *Model[T]) FromRecord(rec Record) (T, error) {
	return m.decode(rec)
}

// FindByID ищет запись по значению ключевого поля
func (m *Model[T]) FindByID(id string) (T, error) {
	return m.Find(Record{m.key: String(id)})
}

// FindRecord возвращает копию первой записи, подходящей под запрос
func (m *Model[T]) FindRecord(query Record) (Record, error) {
	c, err := m.db.Collection(m.collection)
	if err != nil {
		return nil, err
	}
	i := indexOf(c, query)
	if i < 0 {
		return nil, ErrNotFound
	}
	return c.Records[i].Clone(), nil
}

// Find возвращает первую запись, подходящую под запрос
func (m *Model[T]) Find(query Record) (T, error) {
	var zero T
	rec, err := m.FindRecord(query)
	if err != nil {
		return zero, err
	}
	return m.decode(rec)
}

// FindAll возвращает все подходящие записи в порядке вставки
func (m *Model[T]) FindAll(query Record) ([]T, error) {
	c, err := m.db.Collection(m.collection)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0)
	for _, rec := range c.Records {
		if !rec.Matches(query) {
			continue
		}
		item, err := m.decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// All возвращает все записи коллекции
func (m *Model[T]) All() ([]T, error) {
	return m.FindAll(nil)
}

// Count возвращает количество подходящих записей
func (m *Model[T]) Count(query Record) (int, error) {
	c, err := m.db.Collection(m.collection)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, rec := range c.Records {
		if rec.Matches(query) {
			n++
		}
	}
	return n, nil
}

// Insert добавляет запись в конец коллекции и сохраняет хранилище
func (m *Model[T]) Insert(rec Record) error {
	return m.db.Atomic(func() error {
		c, err := m.db.Collection(m.collection)
		if err != nil {
			return err
		}
		c.Records = append(c.Records, rec.Clone())
		return m.db.Save()
	})
}

// Remove удаляет только первую подходящую запись
func (m *Model[T]) Remove(query Record) (bool, error) {
	removed := false
	err := m.db.Atomic(func() error {
		c, err := m.db.Collection(m.collection)
		if err != nil {
			return err
		}
		i := indexOf(c, query)
		if i < 0 {
			return nil
		}
		c.Records = append(c.Records[:i:i], c.Records[i+1:]...)
		removed = true
		return m.db.Save()
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// UpdateOne сливает patch с первой подходящей записью; остальные поля не меняются
func (m *Model[T]) UpdateOne(query, patch Record) (bool, error) {
	updated := false
	err := m.db.Atomic(func() error {
		c, err := m.db.Collection(m.collection)
		if err != nil {
			return err
		}
		i := indexOf(c, query)
		if i < 0 {
			return nil
		}
		c.Records[i].Merge(patch)
		updated = true
		return m.db.Save()
	})
	if err != nil {
		return false, err
	}
	return updated, nil
}

func indexOf(c *Collection, query Record) int {
	for i, rec := range c.Records {
		if rec.Matches(query) {
			return i
		}
	}
	return -1
}
