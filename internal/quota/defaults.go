package quota

import "time"

const allowancePeriod = 7 * 24 * time.Hour

func defaultAllowance() Allowance {
	return Allowance{
		Plan:     "Starter",
		Limit:    25,
		Used:     0,
		ResetsAt: time.Now().UTC().Add(allowancePeriod),
	}
}
