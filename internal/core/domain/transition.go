package domain

var campaignTransitions = map[CampaignStatus][]CampaignStatus{
	CampaignDraft:     {CampaignScheduled, CampaignSending, CampaignCancelled},
	CampaignScheduled: {CampaignSending, CampaignCancelled},
	CampaignSending:   {CampaignSent, CampaignFailed, CampaignCancelled},
	// reopened by the retry scheduler only
	CampaignSent:   {CampaignSending},
	CampaignFailed: {CampaignSending},
}

// CanTransitionTo reports whether the campaign state machine has an edge
// from s to next.
func (s CampaignStatus) CanTransitionTo(next CampaignStatus) bool {
	for _, allowed := range campaignTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CheckTransition returns a *TransitionError when from -> to is not an edge
// of the campaign state machine.
func CheckTransition(from, to CampaignStatus) error {
	if !from.CanTransitionTo(to) {
		return &TransitionError{From: from, To: to}
	}
	return nil
}

// CheckStart guards the operator start action. Only draft and scheduled
// campaigns may be started; soft terminal campaigns re-enter sending through
// a retry instead.
func CheckStart(c *Campaign) error {
	switch c.Status {
	case CampaignDraft, CampaignScheduled:
		return nil
	case CampaignSending:
		return ErrAlreadyStarted
	default:
		return &TransitionError{From: c.Status, To: CampaignSending}
	}
}

// CheckSchedule guards DRAFT -> SCHEDULED. The recipient count check is done
// by the caller through a dry resolution.
func CheckSchedule(c *Campaign) error {
	if c.Status != CampaignDraft {
		return &TransitionError{From: c.Status, To: CampaignScheduled}
	}
	return nil
}

// CheckCancel guards the operator cancel action.
func CheckCancel(c *Campaign) error {
	return CheckTransition(c.Status, CampaignCancelled)
}

// CheckReopen guards the retry path back into sending.
func CheckReopen(c *Campaign) error {
	if !c.Status.SoftTerminal() {
		return &TransitionError{From: c.Status, To: CampaignSending}
	}
	if !c.RetryBudgetLeft() {
		return ErrRetryBudgetExhausted
	}
	return nil
}
