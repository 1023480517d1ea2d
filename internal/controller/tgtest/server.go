// Package tgtest поднимает фейковый Telegram Bot API для тестов контроллера.
package tgtest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/stretchr/testify/require"
)

const Token = "123456:test-token"

// Call один запрос к Bot API
type Call struct {
	Method string
	Fields map[string]string
	Files  map[string][]byte
}

// Server записывает все запросы бота
type Server struct {
	mu    sync.Mutex
	calls []Call
	srv   *httptest.Server
}

// New запускает сервер и бота, который в него ходит
func New(t *testing.T) (*Server, *bot.Bot) {
	t.Helper()

	s := &Server{}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.srv.Close)

	b, err := bot.New(Token, bot.WithServerURL(s.srv.URL))
	require.NoError(t, err)

	return s, b
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

	call := Call{Method: method, Fields: map[string]string{}, Files: map[string][]byte{}}
	if err := r.ParseMultipartForm(10 << 20); err == nil {
		for key, values := range r.MultipartForm.Value {
			call.Fields[key] = values[0]
		}
		for key, headers := range r.MultipartForm.File {
			f, err := headers[0].Open()
			if err != nil {
				continue
			}
			data, _ := io.ReadAll(f)
			f.Close()
			call.Files[key] = data
		}
	}

	w.Header().Set("Content-Type", "application/json")

	switch method {
	case "getMe":
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"test","username":"test_bot"}}`))
		return
	case "sendMessage", "sendPhoto":
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":1,"type":"private"}}}`))
	default:
		_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
	}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
}

// Calls возвращает записанные вызовы указанного метода
func (s *Server) Calls(method string) []Call {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Call
	for _, c := range s.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}
