package quiniela

import (
	"fmt"

	"github.com/marcelojr/quiniela/internal/domain"
)

func CounterKeyTotalQuiniela(id domain.QuinielaID) string {
	return fmt.Sprintf("quiniela:%s:palpites", id)
}

func CounterKeyPartida(quinielaID domain.QuinielaID, partidaID domain.PartidaID) string {
	return fmt.Sprintf("quiniela:%s:partida:%s:palpites", quinielaID, partidaID)
}
