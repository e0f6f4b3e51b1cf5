package graze

// RemainingForPair returns how many more contacts may be stored for the
// given pair right now.
//
// The answer is the smaller of the pair's own remaining allowance and
// the whole-run allowance still open, never negative. A request that
// does not want contact geometry has nothing left to store for any
// pair, so the answer is zero.
func (ec *EvalContext) RemainingForPair(key PairKey) int {
	if !ec.Request.WantContacts {
		return 0
	}

	remainingTotal := ec.Request.MaxContacts - ec.Result.ContactCount
	if remainingTotal <= 0 {
		return 0
	}

	remaining := ec.Request.MaxContactsPerPair - len(ec.Result.Contacts[key])
	if remaining > remainingTotal {
		remaining = remainingTotal
	}
	if remaining < 0 {
		remaining = 0
	}

	return remaining
}
