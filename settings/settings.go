// Package settings persists the user preferences of the launcher in Settings.json.
package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"reflect"
	"slices"
	"strings"

	"github.com/go-logr/logr"
	"github.com/sasha-s/go-deadlock"
	"github.com/spf13/viper"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
	"github.com/PandrPi/ProgramViewer3.0/filesystem"
)

const (
	DefaultSettingsFile = "Settings.json"

	RedirectMessageLogging = "RedirectMessageLogging"
	LastUsedTheme          = "LastUsedTheme"

	DefaultTheme = "Dark"
)

// Field is a setting with its default value. The type of the default is the type of the setting.
type Field struct {
	Name    string
	Default any
}

// DefaultFields lists the settings known by the launcher.
func DefaultFields() []Field {
	return []Field{
		{Name: RedirectMessageLogging, Default: true},
		{Name: LastUsedTheme, Default: DefaultTheme},
	}
}

type value struct {
	Field
	current any
}

// Store holds the settings. Names are case-insensitive, as in viper.
type Store struct {
	fs     filesystem.FS
	path   string
	logger logr.Logger
	mu     deadlock.RWMutex
	values map[string]*value
}

// NewStore returns a store for `fields`, or for DefaultFields if none are given. All settings hold their default until Load is called.
func NewStore(fs filesystem.FS, path string, logger logr.Logger, fields ...Field) *Store {
	if len(fields) == 0 {
		fields = DefaultFields()
	}
	s := &Store{
		fs:     fs,
		path:   path,
		logger: logger.WithName("settings"),
		values: make(map[string]*value, len(fields)),
	}
	for i := range fields {
		s.values[key(fields[i].Name)] = &value{Field: fields[i], current: fields[i].Default}
	}
	return s
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Load reads the settings file. A missing or unreadable file is replaced by one holding the defaults. Values whose type differs from the default are ignored.
func (s *Store) Load(ctx context.Context) (err error) {
	session, err := s.read(ctx)
	if err != nil {
		if commonerrors.Any(err, commonerrors.ErrCancelled, commonerrors.ErrTimeout) {
			return
		}
		s.logger.Info("settings file is missing or corrupted, writing the default one", "path", s.path, "reason", err.Error())
		s.reset()
		err = s.Save(ctx)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range s.values {
		v.current = v.Default
		if !session.IsSet(k) {
			continue
		}
		raw := session.Get(k)
		if reflect.TypeOf(raw) != reflect.TypeOf(v.Default) {
			s.logger.Info("ignoring setting of unexpected type", "setting", v.Name, "type", reflect.TypeOf(raw), "expected", reflect.TypeOf(v.Default))
			continue
		}
		v.current = raw
	}
	return
}

func (s *Store) read(ctx context.Context) (session *viper.Viper, err error) {
	content, err := s.fs.ReadFileWithContext(ctx, s.path)
	if err != nil {
		return
	}
	session = viper.New()
	session.SetConfigType("json")
	err = session.ReadConfig(bytes.NewReader(content))
	if err != nil {
		err = commonerrors.WrapErrorf(commonerrors.ErrMarshalling, err, "could not parse [%v]", s.path)
	}
	return
}

func (s *Store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.values {
		v.current = v.Default
	}
}

// Save writes all settings under their canonical names.
func (s *Store) Save(ctx context.Context) (err error) {
	s.mu.RLock()
	document := make(map[string]any, len(s.values))
	for _, v := range s.values {
		document[v.Name] = v.current
	}
	s.mu.RUnlock()
	content, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		err = commonerrors.WrapError(commonerrors.ErrMarshalling, err, "could not serialise settings")
		return
	}
	content = append(content, '\n')
	err = s.fs.WriteFileWithContext(ctx, s.path, bytes.NewReader(content), 0)
	if err != nil {
		err = commonerrors.WrapErrorf(commonerrors.ErrUnexpected, err, "could not save settings to [%v]", s.path)
	}
	return
}

func (s *Store) Get(name string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, found := s.values[key(name)]
	if !found {
		return nil, commonerrors.Newf(commonerrors.ErrNotFound, "unknown setting [%v]", name)
	}
	return v.current, nil
}

func (s *Store) GetBool(name string) (result bool, err error) {
	raw, err := s.Get(name)
	if err != nil {
		return
	}
	result, ok := raw.(bool)
	if !ok {
		err = commonerrors.Newf(commonerrors.ErrInvalid, "setting [%v] is not a boolean", name)
	}
	return
}

func (s *Store) GetString(name string) (result string, err error) {
	raw, err := s.Get(name)
	if err != nil {
		return
	}
	result, ok := raw.(string)
	if !ok {
		err = commonerrors.Newf(commonerrors.ErrInvalid, "setting [%v] is not a string", name)
	}
	return
}

// Set changes a setting. The new value must have the type of the default.
func (s *Store) Set(name string, newValue any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, found := s.values[key(name)]
	if !found {
		return commonerrors.Newf(commonerrors.ErrNotFound, "unknown setting [%v]", name)
	}
	if reflect.TypeOf(newValue) != reflect.TypeOf(v.Default) {
		return commonerrors.Newf(commonerrors.ErrInvalid, "setting [%v] expects a value of type %T", v.Name, v.Default)
	}
	v.current = newValue
	return nil
}

// Names returns the canonical names of the settings.
func (s *Store) Names() (names []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.values {
		names = append(names, v.Name)
	}
	slices.Sort(names)
	return
}
