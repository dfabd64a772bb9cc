// Pacote health expõe /healthz e /readyz checando as dependências configuradas.
package health

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// Verificacao é uma dependência nomeada; Ping nil significa que ela não está configurada.
type Verificacao struct {
	Nome string
	Ping func(ctx context.Context) error
}

func Banco(db *sql.DB) Verificacao {
	v := Verificacao{Nome: "database"}
	if db != nil {
		v.Ping = db.PingContext
	}
	return v
}

func Redis(client *redis.Client) Verificacao {
	v := Verificacao{Nome: "redis"}
	if client != nil {
		v.Ping = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}
	return v
}

type Checker struct {
	verificacoes []Verificacao
	timeout      time.Duration
}

func NewChecker(verificacoes ...Verificacao) *Checker {
	return &Checker{verificacoes: verificacoes, timeout: 2 * time.Second}
}

type relatorio struct {
	Status      string            `json:"status"`
	Componentes map[string]string `json:"componentes"`
}

// Checar roda todas as verificações e devolve o status por componente.
func (c *Checker) Checar(ctx context.Context) (bool, map[string]string) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ok := true
	componentes := make(map[string]string, len(c.verificacoes))
	for _, v := range c.verificacoes {
		if v.Ping == nil {
			componentes[v.Nome] = "skipped"
			continue
		}
		if err := v.Ping(ctx); err != nil {
			ok = false
			componentes[v.Nome] = "unavailable"
			continue
		}
		componentes[v.Nome] = "ok"
	}
	return ok, componentes
}

func (c *Checker) ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok, componentes := c.Checar(r.Context())

		rel := relatorio{Status: "ok", Componentes: componentes}
		status := http.StatusOK
		if !ok {
			rel.Status = "unavailable"
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(rel)
	}
}

func LiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
