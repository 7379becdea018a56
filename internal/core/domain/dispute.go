package domain

// Evidence is a hashed proof record. The hash is opaque to the core.
type Evidence struct {
	Hash        string
	Kind        int
	SubmittedAt int64
}

// Dispute tracks delivery evidence and the claim lifecycle for one order.
type Dispute struct {
	OrderId    uint64
	State      int
	PoDs       []Evidence
	Claims     []Evidence
	ClaimedAt  int64
	ResolvedAt int64
	// Whether the buyer claim was upheld on resolution.
	Upheld bool
}

// NewDispute returns an empty dispute record for the order.
func NewDispute(orderId uint64) *Dispute {
	return &Dispute{OrderId: orderId, State: DisputeStateNone}
}

// SubmitPoD appends proof-of-delivery evidence. Allowed any time after
// acceptance and does not change the dispute state.
func (d *Dispute) SubmitPoD(hashes []string, kinds []int, now int64) error {
	records, err := makeEvidence(hashes, kinds, now)
	if err != nil {
		return err
	}
	if d.State == DisputeStateResolved {
		return ErrInvalidState
	}
	d.PoDs = append(d.PoDs, records...)
	return nil
}

// OpenClaim files the buyer's claim within the claim window. The window
// edge is inclusive.
func (d *Dispute) OpenClaim(
	hashes []string, kinds []int, completedAt, claimWindowSec, now int64,
) error {
	records, err := makeEvidence(hashes, kinds, now)
	if err != nil {
		return err
	}
	if d.State != DisputeStateNone {
		return ErrInvalidState
	}
	if now > completedAt+claimWindowSec {
		return ErrWindowExpired
	}
	d.State = DisputeStateOpen
	d.ClaimedAt = now
	d.Claims = append(d.Claims, records...)
	return nil
}

// Resolve moves an open dispute to Resolved, recording the verdict.
func (d *Dispute) Resolve(upheld bool, now int64) error {
	if d.State != DisputeStateOpen {
		return ErrInvalidState
	}
	d.State = DisputeStateResolved
	d.ResolvedAt = now
	d.Upheld = upheld
	return nil
}

// HasPoD returns whether the agent has at least one PoD record on file.
func (d *Dispute) HasPoD() bool {
	return len(d.PoDs) > 0
}

// IsOpen returns whether a claim is currently open.
func (d *Dispute) IsOpen() bool {
	return d.State == DisputeStateOpen
}

// IsResolved returns whether the dispute reached its terminal state.
func (d *Dispute) IsResolved() bool {
	return d.State == DisputeStateResolved
}

// StateString returns the label carried on emitted events.
func (d *Dispute) StateString() string {
	switch d.State {
	case DisputeStateOpen:
		return "open"
	case DisputeStateResolved:
		return "resolved"
	default:
		return "none"
	}
}

func makeEvidence(hashes []string, kinds []int, now int64) ([]Evidence, error) {
	if len(hashes) == 0 || len(hashes) != len(kinds) {
		return nil, ErrInvalidEvidence
	}
	records := make([]Evidence, 0, len(hashes))
	for i, hash := range hashes {
		if hash == "" {
			return nil, ErrInvalidEvidence
		}
		if kinds[i] < EvidenceKindOTP || kinds[i] > EvidenceKindPhoto {
			return nil, ErrInvalidEvidence
		}
		records = append(records, Evidence{
			Hash:        hash,
			Kind:        kinds[i],
			SubmittedAt: now,
		})
	}
	return records, nil
}
