package firestore

import (
	"context"

	"github.com/diveops/watchkeeper/pkg/domain/model/errs"
	"github.com/diveops/watchkeeper/pkg/domain/model/policy"
	"github.com/diveops/watchkeeper/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

func (r *Firestore) PutPolicy(ctx context.Context, p policy.Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}

	doc := r.db.Collection(collectionPolicies).Doc(p.ID.String())
	if _, err := doc.Set(ctx, p); err != nil {
		return r.eb.Wrap(err, "failed to put policy", goerr.TV(errs.PolicyIDKey, p.ID))
	}
	return nil
}

func (r *Firestore) GetPolicyByRule(ctx context.Context, ruleID types.RuleID) (*policy.Policy, error) {
	if ruleID == types.EmptyRuleID {
		return nil, nil
	}

	iter := r.db.Collection(collectionPolicies).
		Where("RuleID", "==", ruleID.String()).
		Where("Enabled", "==", true).
		Limit(1).
		Documents(ctx)

	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, nil
		}
		return nil, r.eb.Wrap(err, "failed to get policy by rule", goerr.V("rule_id", ruleID))
	}

	var p policy.Policy
	if err := doc.DataTo(&p); err != nil {
		return nil, r.eb.Wrap(err, "failed to convert data to policy")
	}
	return &p, nil
}

func (r *Firestore) GetPolicyByType(ctx context.Context, alertType types.AlertType) (*policy.Policy, error) {
	iter := r.db.Collection(collectionPolicies).
		Where("AlertType", "==", alertType.String()).
		Where("RuleID", "==", "").
		Where("Enabled", "==", true).
		Limit(1).
		Documents(ctx)

	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, nil
		}
		return nil, r.eb.Wrap(err, "failed to get policy by type", goerr.V("alert_type", alertType))
	}

	var p policy.Policy
	if err := doc.DataTo(&p); err != nil {
		return nil, r.eb.Wrap(err, "failed to convert data to policy")
	}
	return &p, nil
}
