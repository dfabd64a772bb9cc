// Pacote settlement decide os vencedores de uma quiniela encerrada e gera as dívidas entre participantes.
package settlement

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marcelojr/quiniela/internal/domain"
	"github.com/marcelojr/quiniela/internal/platform/ids"
)

var ErrRankingVazio = errors.New("ranking vazio")

type Regras struct {
	// Base é o valor que cada perdedor paga a um vencedor único.
	Base       decimal.Decimal
	Vencimento time.Time
}

func RegrasPadrao() Regras {
	return Regras{Base: decimal.NewFromInt(50)}
}

// Determinar recebe o ranking já ordenado por pontos (desc).
//
//   - 1 vencedor: cada outro participante paga Base ao vencedor;
//   - 2 vencedores: o primeiro não vencedor paga Base/2 a cada um;
//   - 3 ou mais vencedores, ou menos de 2 participantes: sem pagamentos.
//
// Os IDs dos pagamentos são determinísticos, então persistir duas vezes não duplica nada.
func Determinar(quinielaID domain.QuinielaID, ranking []domain.Colocacao, regras Regras) (domain.Liquidacao, error) {
	if len(ranking) == 0 {
		return domain.Liquidacao{}, fmt.Errorf("%w: quiniela %s", ErrRankingVazio, quinielaID)
	}
	if !regras.Base.IsPositive() {
		return domain.Liquidacao{}, fmt.Errorf("settlement: valor base invalido: %s", regras.Base)
	}

	maxima := ranking[0].Pontos
	for _, c := range ranking[1:] {
		if c.Pontos > maxima {
			maxima = c.Pontos
		}
	}

	vencedores := make([]domain.UsuarioID, 0, 1)
	ehVencedor := make(map[domain.UsuarioID]bool)
	for _, c := range ranking {
		if c.Pontos == maxima {
			vencedores = append(vencedores, c.UsuarioID)
			ehVencedor[c.UsuarioID] = true
		}
	}

	liq := domain.Liquidacao{
		QuinielaID:      quinielaID,
		PontuacaoMaxima: maxima,
		Vencedores:      vencedores,
		Pagamentos:      []domain.Pagamento{},
	}

	if len(ranking) < 2 {
		return liq, nil
	}

	switch len(vencedores) {
	case 1:
		vencedor := vencedores[0]
		for _, c := range ranking {
			if c.UsuarioID == vencedor {
				continue
			}
			liq.Pagamentos = append(liq.Pagamentos, novoPagamento(quinielaID, c.UsuarioID, vencedor, regras.Base, regras.Vencimento,
				fmt.Sprintf("Quiniela %s: vencedor unico com %d pontos", quinielaID, maxima)))
		}
	case 2:
		terceiro, ok := primeiroNaoVencedor(ranking, ehVencedor)
		if !ok {
			return liq, nil
		}
		metade := regras.Base.Div(decimal.NewFromInt(2))
		for _, vencedor := range vencedores {
			liq.Pagamentos = append(liq.Pagamentos, novoPagamento(quinielaID, terceiro, vencedor, metade, regras.Vencimento,
				fmt.Sprintf("Quiniela %s: empate no primeiro lugar com %d pontos", quinielaID, maxima)))
		}
	}

	return liq, nil
}

func primeiroNaoVencedor(ranking []domain.Colocacao, ehVencedor map[domain.UsuarioID]bool) (domain.UsuarioID, bool) {
	for _, c := range ranking {
		if !ehVencedor[c.UsuarioID] {
			return c.UsuarioID, true
		}
	}
	return "", false
}

func novoPagamento(quinielaID domain.QuinielaID, de, para domain.UsuarioID, valor decimal.Decimal, vencimento time.Time, motivo string) domain.Pagamento {
	return domain.Pagamento{
		ID:            ids.Pagamento(quinielaID, de, para),
		QuinielaID:    quinielaID,
		DeUsuarioID:   de,
		ParaUsuarioID: para,
		Valor:         valor,
		Status:        domain.PagamentoPendente,
		Vencimento:    vencimento,
		Motivo:        motivo,
	}
}
