package settings

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
	"github.com/PandrPi/ProgramViewer3.0/commonerrors/errortest"
	"github.com/PandrPi/ProgramViewer3.0/filesystem"
	"github.com/PandrPi/ProgramViewer3.0/logs/logstest"
)

var settingsPath = filepath.Join(string(filepath.Separator), "program-viewer", DefaultSettingsFile)

func TestDefaults(t *testing.T) {
	store := NewStore(filesystem.NewInMemoryFileSystem(), settingsPath, logstest.NewTestLogger(t))
	assert.Equal(t, []string{LastUsedTheme, RedirectMessageLogging}, store.Names())
	redirect, err := store.GetBool(RedirectMessageLogging)
	require.NoError(t, err)
	assert.True(t, redirect)
	theme, err := store.GetString(LastUsedTheme)
	require.NoError(t, err)
	assert.Equal(t, DefaultTheme, theme)

	_, err = store.Get(faker.Word())
	errortest.AssertError(t, err, commonerrors.ErrNotFound)
	_, err = store.GetString(RedirectMessageLogging)
	errortest.AssertError(t, err, commonerrors.ErrInvalid)
	_, err = store.GetBool(LastUsedTheme)
	errortest.AssertError(t, err, commonerrors.ErrInvalid)
}

func TestLoadSelfHeals(t *testing.T) {
	tests := []struct {
		name    string
		content *string
	}{
		{name: "missing"},
		{name: "invalid", content: ptr(faker.Paragraph())},
		{name: "array", content: ptr("[true]")},
	}
	for i := range tests {
		test := tests[i]
		t.Run(test.name, func(t *testing.T) {
			fs := filesystem.NewInMemoryFileSystem()
			if test.content != nil {
				require.NoError(t, fs.WriteFile(settingsPath, []byte(*test.content), 0))
			}
			logger, recorder := logstest.NewRecordingTestLogger()
			store := NewStore(fs, settingsPath, logger)
			require.NoError(t, store.Load(context.Background()))
			assert.True(t, recorder.Contains("writing the default one"))

			content, err := fs.ReadFile(settingsPath)
			require.NoError(t, err)
			var document map[string]any
			require.NoError(t, json.Unmarshal(content, &document))
			assert.Equal(t, map[string]any{RedirectMessageLogging: true, LastUsedTheme: DefaultTheme}, document)
		})
	}
}

func TestLoadKeepsDefaultsOnTypeMismatch(t *testing.T) {
	fs := filesystem.NewInMemoryFileSystem()
	require.NoError(t, fs.WriteFile(settingsPath, []byte(`{"RedirectMessageLogging": "no", "LastUsedTheme": "Light", "Unknown": 3}`), 0))
	logger, recorder := logstest.NewRecordingTestLogger()
	store := NewStore(fs, settingsPath, logger)
	require.NoError(t, store.Load(context.Background()))
	assert.True(t, recorder.Contains("unexpected type"))

	redirect, err := store.GetBool(RedirectMessageLogging)
	require.NoError(t, err)
	assert.True(t, redirect)
	theme, err := store.GetString("lastusedtheme")
	require.NoError(t, err)
	assert.Equal(t, "Light", theme)
}

func TestSetAndSave(t *testing.T) {
	fs := filesystem.NewInMemoryFileSystem()
	store := NewStore(fs, settingsPath, logstest.NewTestLogger(t))
	require.NoError(t, store.Load(context.Background()))

	errortest.AssertError(t, store.Set(faker.Word(), true), commonerrors.ErrNotFound)
	errortest.AssertError(t, store.Set(RedirectMessageLogging, "false"), commonerrors.ErrInvalid)
	errortest.AssertError(t, store.Set(LastUsedTheme, nil), commonerrors.ErrInvalid)
	require.NoError(t, store.Set(RedirectMessageLogging, false))
	require.NoError(t, store.Set(LastUsedTheme, "Light"))
	require.NoError(t, store.Save(context.Background()))

	content, err := fs.ReadFile(settingsPath)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"LastUsedTheme\": \"Light\",\n  \"RedirectMessageLogging\": false\n}\n", string(content))

	reloaded := NewStore(fs, settingsPath, logstest.NewTestLogger(t))
	require.NoError(t, reloaded.Load(context.Background()))
	redirect, err := reloaded.GetBool(RedirectMessageLogging)
	require.NoError(t, err)
	assert.False(t, redirect)
	theme, err := reloaded.GetString(LastUsedTheme)
	require.NoError(t, err)
	assert.Equal(t, "Light", theme)
}

func TestCustomFields(t *testing.T) {
	fs := filesystem.NewInMemoryFileSystem()
	require.NoError(t, fs.WriteFile(settingsPath, []byte(`{"Opacity": 0.5}`), 0))
	store := NewStore(fs, settingsPath, logstest.NewTestLogger(t), Field{Name: "Opacity", Default: 1.0})
	require.NoError(t, store.Load(context.Background()))
	opacity, err := store.Get("Opacity")
	require.NoError(t, err)
	assert.Equal(t, 0.5, opacity)
	_, err = store.Get(LastUsedTheme)
	errortest.AssertError(t, err, commonerrors.ErrNotFound)
}

func TestLoadCancelled(t *testing.T) {
	fs := filesystem.NewInMemoryFileSystem()
	require.NoError(t, fs.WriteFile(settingsPath, []byte(`{}`), 0))
	store := NewStore(fs, settingsPath, logstest.NewTestLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	errortest.AssertError(t, store.Load(ctx), commonerrors.ErrCancelled)
}

func ptr(s string) *string {
	return &s
}
