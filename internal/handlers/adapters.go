package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
)

// Notice sayfanın üstünde gösterilen bildirim
type Notice struct {
	Level   string `json:"level"` // success, error, info
	Message string `json:"message"`
}

// formPrompter onay cevabını POST formundan alır, Alert mesajlarını
// sayfada gösterilmek üzere toplar.
type formPrompter struct {
	confirmed bool

	mu       sync.Mutex
	messages []string
}

func newFormPrompter(confirmed bool) *formPrompter {
	return &formPrompter{confirmed: confirmed}
}

func (p *formPrompter) Confirm(string) bool {
	return p.confirmed
}

func (p *formPrompter) Alert(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, message)
}

// Notices toplanan bildirimleri verilen seviyeyle döner
func (p *formPrompter) Notices(level string) []Notice {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Notice, len(p.messages))
	for i, m := range p.messages {
		out[i] = Notice{Level: level, Message: m}
	}
	return out
}

// noopPrompter purge içermeyen sayfalarda kullanılır
type noopPrompter struct{}

func (noopPrompter) Confirm(string) bool { return false }
func (noopPrompter) Alert(string)        {}

// responseDownloader indirilecek dosyayı attachment olarak response'a yazar
type responseDownloader struct {
	w       http.ResponseWriter
	written bool
}

func (d *responseDownloader) Download(filename, contentType string, data []byte) error {
	if d.written {
		return fmt.Errorf("response zaten yazıldı")
	}
	d.written = true

	h := d.w.Header()
	h.Set("Content-Type", contentType+"; charset=utf-8")
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	h.Set("Content-Length", strconv.Itoa(len(data)))
	h.Set("Cache-Control", "no-store")
	d.w.WriteHeader(http.StatusOK)

	if _, err := d.w.Write(data); err != nil {
		return fmt.Errorf("CSV yazılamadı: %w", err)
	}
	return nil
}

// noopDownloader export içermeyen sayfalarda kullanılır
type noopDownloader struct{}

func (noopDownloader) Download(string, string, []byte) error {
	return fmt.Errorf("bu istekte indirme desteklenmiyor")
}
