package mocks

import (
	"sync"

	"github.com/Kush-Singh-26/folio/builder/models"
)

// MockRenderService is a mock implementation of services.RenderService
type MockRenderService struct {
	mu              sync.Mutex
	RenderedPages   map[string]models.PageData
	Templates       map[string]string
	RegisteredFiles map[string]bool
	Assets          map[string]string
	CallCount       map[string]int
	// FailOn makes RenderPage return Err for that path
	FailOn string
	Err    error
}

// NewMockRenderService creates a new mock render service
func NewMockRenderService() *MockRenderService {
	return &MockRenderService{
		RenderedPages:   make(map[string]models.PageData),
		Templates:       make(map[string]string),
		RegisteredFiles: make(map[string]bool),
		Assets:          make(map[string]string),
		CallCount:       make(map[string]int),
	}
}

func (m *MockRenderService) recordCall(method string) {
	if m.CallCount == nil {
		m.CallCount = make(map[string]int)
	}
	m.CallCount[method]++
}

// RenderPage records the page instead of writing it
func (m *MockRenderService) RenderPage(path, name string, data models.PageData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCall("RenderPage")
	if m.FailOn != "" && path == m.FailOn {
		return m.Err
	}
	m.RenderedPages[path] = data
	m.Templates[path] = name
	m.RegisteredFiles[path] = true
	return nil
}

// RegisterFile registers a file as written
func (m *MockRenderService) RegisterFile(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCall("RegisterFile")
	m.RegisteredFiles[path] = true
}

// SetAssets sets the asset map
func (m *MockRenderService) SetAssets(assets map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCall("SetAssets")
	m.Assets = assets
}

// GetAssets returns the asset map
func (m *MockRenderService) GetAssets() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCall("GetAssets")
	return m.Assets
}

// Written returns the number of registered files
func (m *MockRenderService) Written() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.RegisteredFiles))
}
