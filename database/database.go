// Package database реализует файловое хранилище документов: набор именованных
// коллекций плоских записей, целиком сохраняемый в один JSON-файл.
package database

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Collection представляет именованную упорядоченную последовательность записей.
// Указатель, возвращаемый Database.Collection, живой: изменения Records видны хранилищу.
type Collection struct {
	Name    string
	Records []Record
}

// Database представляет хранилище, целиком загружаемое в память.
// Каждая мутация приводит к полной перезаписи файла.
// Database не предназначен для одновременного использования из нескольких горутин.
type Database struct {
	path        string
	collections map[string]*Collection

	depth   int
	pending bool
	flushes int64
}

// NewDatabase создает хранилище для файла path без загрузки
func NewDatabase(path string) *Database {
	return &Database{
		path:        path,
		collections: make(map[string]*Collection),
	}
}

// Open создает хранилище и загружает его с диска
func Open(path string) (*Database, error) {
	db := NewDatabase(path)
	if err := db.Load(); err != nil {
		return nil, err
	}
	return db, nil
}

// Path возвращает путь к файлу хранилища
func (d *Database) Path() string { return d.path }

// Flushes возвращает количество выполненных записей файла
func (d *Database) Flushes() int64 { return d.flushes }

// Load читает файл хранилища. Если файла нет, создается и сохраняется пустое хранилище.
func (d *Database) Load() error {
	data, err := os.ReadFile(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		d.collections = make(map[string]*Collection)
		return d.flush()
	}
	if err != nil {
		return &StorageError{Op: "load", Path: d.path, Err: err}
	}

	var raw map[string][]Record
	if err := json.Unmarshal(data, &raw); err != nil {
		return &StorageError{Op: "decode", Path: d.path, Err: err}
	}

	collections := make(map[string]*Collection, len(raw))
	for name, records := range raw {
		if records == nil {
			records = []Record{}
		}
		for i, rec := range records {
			if rec == nil {
				return &StorageError{Op: "decode", Path: d.path, Err: fmt.Errorf("collection %q: record %d is null", name, i)}
			}
		}
		collections[name] = &Collection{Name: name, Records: records}
	}
	d.collections = collections
	return nil
}

// Save сохраняет хранилище целиком. Внутри Atomic запись откладывается до конца блока.
func (d *Database) Save() error {
	if d.depth > 0 {
		d.pending = true
		return nil
	}
	return d.flush()
}

// Clear очищает хранилище в памяти и на диске
func (d *Database) Clear() error {
	return d.Atomic(func() error {
		d.collections = make(map[string]*Collection)
		return d.Save()
	})
}

// Collection возвращает коллекцию name, создавая и сохраняя пустую при отсутствии
func (d *Database) Collection(name string) (*Collection, error) {
	if c, ok := d.collections[name]; ok {
		return c, nil
	}
	c := &Collection{Name: name, Records: []Record{}}
	d.collections[name] = c
	if err := d.Save(); err != nil {
		delete(d.collections, name)
		return nil, err
	}
	return c, nil
}

// Names возвращает отсортированные имена коллекций
func (d *Database) Names() []string {
	names := make([]string, 0, len(d.collections))
	for name := range d.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Atomic выполняет fn как одну логическую операцию. Сохранения внутри fn
// сводятся к одной записи файла в конце. При ошибке fn или записи состояние
// в памяти откатывается к моменту входа, файл не изменяется.
// Вложенные вызовы присоединяются к внешнему и откатывают только свою часть.
func (d *Database) Atomic(fn func() error) (err error) {
	snap := d.snapshot()
	d.depth++
	defer func() {
		if r := recover(); r != nil {
			d.depth--
			d.restore(snap)
			if d.depth == 0 {
				d.pending = false
			}
			panic(r)
		}
	}()

	err = fn()
	d.depth--

	if err == nil && d.depth == 0 && d.pending {
		err = d.flush()
	}
	if err != nil {
		d.restore(snap)
	}
	if d.depth == 0 {
		d.pending = false
	}
	return err
}

func (d *Database) snapshot() map[string][]Record {
	snap := make(map[string][]Record, len(d.collections))
	for name, c := range d.collections {
		records := make([]Record, len(c.Records))
		for i, rec := range c.Records {
			records[i] = rec.Clone()
		}
		snap[name] = records
	}
	return snap
}

// restore возвращает содержимое, сохраняя указатели на существующие коллекции
func (d *Database) restore(snap map[string][]Record) {
	for name := range d.collections {
		if _, ok := snap[name]; !ok {
			delete(d.collections, name)
		}
	}
	for name, records := range snap {
		if c, ok := d.collections[name]; ok {
			c.Records = records
			continue
		}
		d.collections[name] = &Collection{Name: name, Records: records}
	}
}

// flush пишет во временный файл и атомарно заменяет им основной
func (d *Database) flush() error {
	out := make(map[string][]Record, len(d.collections))
	for name, c := range d.collections {
		out[name] = c.Records
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return &StorageError{Op: "encode", Path: d.path, Err: err}
	}

	if dir := filepath.Dir(d.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &StorageError{Op: "save", Path: d.path, Err: err}
		}
	}

	tmp := d.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return &StorageError{Op: "save", Path: d.path, Err: err}
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		os.Remove(tmp)
		return &StorageError{Op: "save", Path: d.path, Err: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return &StorageError{Op: "save", Path: d.path, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return &StorageError{Op: "save", Path: d.path, Err: err}
	}
	if err := os.Rename(tmp, d.path); err != nil {
		os.Remove(tmp)
		return &StorageError{Op: "save", Path: d.path, Err: err}
	}
	d.flushes++
	return nil
}
