package ledger

import "sort"

// Transfer is a proposed point-to-point payment that moves both parties'
// balances toward zero. Transfers are computed on demand and never
// persisted; settlement is recorded back onto expenses via their settled
// and paid flags.
type Transfer struct {
	FromUserID   string
	FromUserName string
	ToUserID     string
	ToUserName   string
	Amount       float64
}

// Optimize computes a settling set of transfers from net balances using
// greedy two-cursor matching.
//
// Balances within Epsilon of zero are discarded as already settled.
// Creditors are sorted descending by amount and debtors ascending (most
// negative first); ties break on user ID. This ordering is part of the
// contract: the same balance set always yields the same transfer list.
//
// Each transfer retires at least one balance, so the result contains at
// most creditors+debtors-1 transfers and drives every matched balance to
// within Epsilon of zero. This is a heuristic
// that collapses two-party chains; it does not guarantee the minimum
// possible transfer count for every input. If the creditor and debtor
// totals do not cancel (possible under a partial scope), the walk
// terminates with residual balance left on the larger side, which is a
// reportable outcome rather than an error.
func Optimize(balances []Balance) []Transfer {
	var creditors, debtors []Balance
	for _, b := range balances {
		switch {
		case b.Net > Epsilon:
			creditors = append(creditors, b)
		case b.Net < -Epsilon:
			debtors = append(debtors, b)
		}
	}

	sort.Slice(creditors, func(i, j int) bool {
		if creditors[i].Net != creditors[j].Net {
			return creditors[i].Net > creditors[j].Net
		}
		return creditors[i].UserID < creditors[j].UserID
	})
	sort.Slice(debtors, func(i, j int) bool {
		if debtors[i].Net != debtors[j].Net {
			return debtors[i].Net < debtors[j].Net
		}
		return debtors[i].UserID < debtors[j].UserID
	})

	var transfers []Transfer
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		creditor := &creditors[i]
		debtor := &debtors[j]

		amount := creditor.Net
		if -debtor.Net < amount {
			amount = -debtor.Net
		}

		if amount > Epsilon {
			transfers = append(transfers, Transfer{
				FromUserID:   debtor.UserID,
				FromUserName: debtor.UserName,
				ToUserID:     creditor.UserID,
				ToUserName:   creditor.UserName,
				Amount:       Round2(amount),
			})
			creditor.Net -= amount
			debtor.Net += amount
		}

		if creditor.Net < Epsilon {
			i++
		}
		if debtor.Net > -Epsilon {
			j++
		}
	}

	return transfers
}
