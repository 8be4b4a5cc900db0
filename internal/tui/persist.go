package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"mindmap/internal/debug"
	"mindmap/internal/document"
	"mindmap/internal/editor"
	"mindmap/internal/store"
	"mindmap/internal/watch"
)

const documentExtension = document.Extension

type fileChangedMsg struct {
	path string
}

// autosaveMark is the content key last handed to the store. Failed saves
// clear it from the debouncer's goroutine.
type autosaveMark struct {
	mu  sync.Mutex
	key string
}

func (a *autosaveMark) get() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.key
}

func (a *autosaveMark) set(key string) {
	a.mu.Lock()
	a.key = key
	a.mu.Unlock()
}

// forget clears key unless a newer one was set meanwhile.
func (a *autosaveMark) forget(key string) {
	a.mu.Lock()
	if a.key == key {
		a.key = ""
	}
	a.mu.Unlock()
}

// withLoading runs fn with autosave suppressed and marks the result as the
// autosaved content.
func (m *Model) withLoading(fn func()) {
	m.loading = true
	defer func() {
		m.loading = false
		m.autosaved.set(m.editor.ContentKey())
	}()
	fn()
}

// contentChanged autosaves a snapshot of the document to the store once
// edits go quiet. The snapshot is taken here, on the UI goroutine.
func (m *Model) contentChanged() {
	if m.loading || m.autosaver == nil || m.store == nil {
		return
	}
	key := m.editor.ContentKey()
	if key == m.autosaved.get() {
		return
	}
	raw, err := m.editor.RawData(m.cfg.RecordPan)
	if err != nil {
		logError(err, "autosave encode failed", nil)
		return
	}
	m.autosaved.set(key)
	st, name, mark := m.store, m.storeName(), &m.autosaved
	m.autosaver.Trigger(func() {
		if err := st.Save(name, raw); err != nil {
			mark.forget(key)
			logError(err, "autosave failed", map[string]any{"name": name})
			return
		}
		debug.Log("autosaved %s (%d bytes)", name, len(raw))
	})
}

func (m *Model) storeName() string {
	if m.docName == "" {
		return untitled
	}
	return m.docName
}

func docNameFor(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// documentPath adds the document extension when missing and resolves the
// name against the save directory.
func (m *Model) documentPath(name string) string {
	name = strings.TrimSpace(name)
	if filepath.Ext(name) == "" {
		name += documentExtension
	}
	return m.cfg.SavePath(name)
}

func (m *Model) documentDir() string {
	if m.cfg.SaveDirectory != "" {
		return m.cfg.SaveDirectory
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}

// scanDocuments lists the saved maps in the document directory, without
// their extension.
func (m *Model) scanDocuments() {
	m.fileList = []string{}
	m.selectedFileIndex = -1

	entries, err := os.ReadDir(m.documentDir())
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), documentExtension) {
			m.fileList = append(m.fileList, docNameFor(entry.Name()))
		}
	}
	sort.Strings(m.fileList)
	if len(m.fileList) > 0 {
		m.selectedFileIndex = 0
	}
}

// saveTo writes the document and starts watching the file when it is new.
func (m *Model) saveTo(path string) tea.Cmd {
	raw, err := m.editor.RawData(m.cfg.RecordPan)
	if err != nil {
		m.errorMessage = err.Error()
		return nil
	}
	same := m.watching(path)
	if same {
		m.watcher.IgnoreFor(selfWriteGrace)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		m.errorMessage = fmt.Sprintf("Could not create directory: %v", err)
		return nil
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		m.errorMessage = fmt.Sprintf("Could not save: %v", err)
		return nil
	}
	m.path, m.docName = path, docNameFor(path)
	m.savedKey = m.editor.ContentKey()
	m.successMessage = "Saved " + filepath.Base(path)
	debug.WithFields(map[string]any{"path": path, "bytes": len(raw)}).Debug("saved document")
	if same {
		return nil
	}
	return m.startWatcher()
}

// openFile loads path. A missing file starts a new map that will be saved
// there.
func (m *Model) openFile(path string) tea.Cmd {
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		m.withLoading(func() { m.editor.NewDocument(editor.DefaultRootText) })
		m.successMessage = "New file " + filepath.Base(path)
	case err != nil:
		m.errorMessage = fmt.Sprintf("Could not open: %v", err)
		return nil
	default:
		var loadErr error
		m.withLoading(func() { loadErr = m.editor.LoadRaw(raw) })
		if loadErr != nil {
			m.errorMessage = loadErr.Error()
			return nil
		}
		m.successMessage = "Opened " + filepath.Base(path)
	}
	m.path, m.docName = path, docNameFor(path)
	m.savedKey = m.editor.ContentKey()
	m.mode = ModeNormal
	return m.startWatcher()
}

// openStored loads a document from the store. Stored documents have no file
// to watch.
func (m *Model) openStored(name string) error {
	if m.store == nil {
		return errors.New("no document store configured")
	}
	raw, err := m.store.Load(name)
	if err != nil {
		return err
	}
	var loadErr error
	m.withLoading(func() { loadErr = m.editor.LoadRaw(raw) })
	if loadErr != nil {
		return loadErr
	}
	m.stopWatcher()
	m.path, m.docName = "", name
	m.savedKey = m.editor.ContentKey()
	m.mode = ModeNormal
	m.successMessage = "Resumed " + name
	return nil
}

func (m *Model) lastStored() (store.Entry, bool) {
	if m.store == nil {
		return store.Entry{}, false
	}
	entries, err := m.store.List()
	if err != nil || len(entries) == 0 {
		return store.Entry{}, false
	}
	return entries[0], true
}

func humanizeTime(t time.Time) string {
	return humanize.Time(t)
}

func (m *Model) newDocument() {
	m.stopWatcher()
	m.withLoading(func() { m.editor.NewDocument(editor.DefaultRootText) })
	m.path, m.docName = "", untitled
	m.savedKey = m.editor.ContentKey()
	m.mode = ModeNormal
}

func (m *Model) reloadFromDisk() {
	if m.path == "" {
		return
	}
	raw, err := os.ReadFile(m.path)
	if err != nil {
		m.errorMessage = fmt.Sprintf("Could not reload: %v", err)
		return
	}
	var loadErr error
	m.withLoading(func() { loadErr = m.editor.ReloadRaw(raw) })
	if loadErr != nil {
		m.errorMessage = loadErr.Error()
		return
	}
	m.savedKey = m.editor.ContentKey()
	m.successMessage = "Reloaded " + filepath.Base(m.path)
}

func (m *Model) watching(path string) bool {
	if m.watcher == nil {
		return false
	}
	abs, err := filepath.Abs(path)
	return err == nil && abs == m.watcher.Path()
}

func (m *Model) startWatcher() tea.Cmd {
	m.stopWatcher()
	if m.path == "" {
		return nil
	}
	path := m.path
	w, err := watch.New(path, watch.WithOnError(func(err error) {
		logError(err, "watch failed", map[string]any{"path": path})
	}))
	if err == nil {
		err = w.Start()
	}
	if err != nil {
		logError(err, "could not watch document", map[string]any{"path": path})
		return nil
	}
	m.watcher, m.watchDone = w, make(chan struct{})
	return waitForChange(w, m.watchDone)
}

func (m *Model) stopWatcher() {
	if m.watcher == nil {
		return
	}
	m.watcher.Stop()
	close(m.watchDone)
	m.watcher, m.watchDone = nil, nil
}

func waitForChange(w *watch.Watcher, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-w.Changed():
			return fileChangedMsg{path: w.Path()}
		case <-done:
			return nil
		}
	}
}

// handleFileChanged reloads a document edited elsewhere, asking first when
// there are local changes.
func (m *Model) handleFileChanged(msg fileChangedMsg) tea.Cmd {
	if m.watcher == nil || msg.path != m.watcher.Path() {
		return nil
	}
	wait := waitForChange(m.watcher, m.watchDone)
	if m.dirty() && m.cfg.Confirmations {
		if m.mode == ModeNormal {
			m.confirmAction = ConfirmReload
			m.mode = ModeConfirm
		}
		return wait
	}
	m.reloadFromDisk()
	return wait
}
