package seed

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/types"
)

var (
	firstNames = []string{"Ada", "Grace", "Linus", "Barbara", "Ken", "Margaret", "Dennis", "Frances", "Alan", "Radia"}
	roles      = []string{"Engineer", "Researcher", "Product", "Design", "Lead"}
)

// toggle is one planned sign-up.
type toggle struct {
	SessionID string `json:"sessionId"`
	MemberID  string `json:"memberId"`
	key       string
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}

// memberInputs builds n members with distinct names.
func memberInputs(rng *rand.Rand, n int) []types.MemberInput {
	out := make([]types.MemberInput, n)
	for i := range out {
		name := firstNames[i%len(firstNames)]
		if i >= len(firstNames) {
			name = fmt.Sprintf("%s %d", name, i/len(firstNames)+1)
		}
		out[i] = types.MemberInput{Name: name, Role: roles[rng.IntN(len(roles))]}
	}
	return out
}

// plan picks up to n distinct session/member pairs, each with its own
// idempotency key. It never plans more pairs than exist.
func plan(rng *rand.Rand, sessionIDs, memberIDs []string, n int) []toggle {
	total := len(sessionIDs) * len(memberIDs)
	if n > total {
		n = total
	}
	out := make([]toggle, 0, n)
	for _, idx := range rng.Perm(total)[:n] {
		out = append(out, toggle{
			SessionID: sessionIDs[idx/len(memberIDs)],
			MemberID:  memberIDs[idx%len(memberIDs)],
			key:       uuid.NewString(),
		})
	}
	return out
}
