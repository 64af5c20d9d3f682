package services

import (
	"github.com/lexgen/lexgen-backend/internal/apierr"
	"github.com/lexgen/lexgen-backend/internal/types"
)

// SelectInteractionMode maps a subscription plan to the generation strategy
// and quota policy. Premium accounts get the multi-turn interactive mode and
// are never charged; free and basic both get the one-shot simple mode and
// differ only in provisioned quota.
func SelectInteractionMode(plan string) (mode string, quotaExempt bool) {
	if plan == types.PlanPremium {
		return types.ModeInteractive, true
	}
	return types.ModeSimple, false
}

// AuthorizeGeneration is the pre-run gate. Both rejections are terminal for
// the attempt and carry distinguishable codes so the caller can tell a quota
// problem from an ethics problem.
func AuthorizeGeneration(sub *types.Subscription, screenPassed bool) error {
	_, quotaExempt := SelectInteractionMode(sub.Plan)
	if !quotaExempt && sub.CasesRemaining <= 0 {
		return apierr.QuotaExhausted()
	}
	if !screenPassed {
		return apierr.ContentRejected()
	}
	return nil
}
