package models

// All lists every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&EngineState{},
		&Gig{},
		&Order{},
		&MarketEvent{},
		&Account{},
		&Deposit{},
		&Withdrawal{},
	}
}
