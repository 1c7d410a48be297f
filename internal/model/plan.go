package model

// Plan is an organizer subscription plan. Price is in AOA.
type Plan struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	DurationMonths int      `json:"duration_months"`
	Price          int64    `json:"price"`
	Features       []string `json:"features"`
}

var plans = []Plan{
	{
		ID:             "plan_1",
		Name:           "Mensal - Destaque",
		DurationMonths: 1,
		Price:          300000,
		Features:       []string{"Eventos ilimitados", "Destaque por 1 mês", "Suporte básico"},
	},
	{
		ID:             "plan_2",
		Name:           "Bimestral - Pro",
		DurationMonths: 2,
		Price:          500000,
		Features:       []string{"Eventos ilimitados", "Destaque por 2 meses", "Análise de dados", "Suporte prioritário"},
	},
	{
		ID:             "plan_3",
		Name:           "Semestral - Elite",
		DurationMonths: 5,
		Price:          1000000,
		Features:       []string{"Eventos ilimitados", "Destaque por 5 meses", "Marketing dedicado", "Gestor de conta"},
	},
}

// Plans returns the subscription plans in display order.
func Plans() []Plan {
	out := make([]Plan, len(plans))
	copy(out, plans)
	return out
}

// PlanByID looks up a plan.
func PlanByID(id string) (Plan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
