package quote

import (
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/calculation"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/contracts"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/queries/calculate_price"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/queries/get_quote"
)

type createQuoteReply struct {
	QuoteID string `json:"quoteId"`
}

type quoteReply struct {
	Quote *contracts.QuoteDTO `json:"quote"`
	Price *contracts.PriceDTO `json:"price,omitempty"`
}

type parametersReply struct {
	Quote            *contracts.QuoteDTO `json:"quote"`
	Price            *contracts.PriceDTO `json:"price,omitempty"`
	PriceChanged     bool                `json:"priceChanged"`
	CalculationError *errorBody          `json:"calculationError,omitempty"`
}

type addEventReply struct {
	Quote *contracts.QuoteDTO `json:"quote"`
	Event contracts.EventDTO  `json:"event"`
}

// outboxEventReply is one stored domain event.
type outboxEventReply struct {
	EventID     string `json:"eventId"`
	EventType   string `json:"eventType"`
	AggregateID string `json:"aggregateId"`
	Payload     string `json:"payload"`
	Status      string `json:"status"`
}

type listOutboxReply struct {
	Events     []outboxEventReply `json:"events"`
	TotalCount int                `json:"totalCount"`
}

func toQuoteReply(q *domain.Quote, outcome *calculation.Outcome) quoteReply {
	reply := quoteReply{Quote: get_quote.ToDTO(q)}
	if outcome != nil {
		reply.Price = calculate_price.ToDTO(outcome)
	}
	return reply
}

func toEventDTO(e *domain.ItineraryEvent) contracts.EventDTO {
	return contracts.EventDTO{
		EventID: e.ID,
		Title:   e.Title,
		Price:   e.Price.String(),
		AddedAt: e.AddedAt,
	}
}

func toListOutboxReply(events []*contracts.OutboxEvent) listOutboxReply {
	reply := listOutboxReply{Events: make([]outboxEventReply, 0, len(events)), TotalCount: len(events)}
	for _, e := range events {
		reply.Events = append(reply.Events, outboxEventReply{
			EventID:     e.EventID,
			EventType:   e.EventType,
			AggregateID: e.AggregateID,
			Payload:     e.Payload,
			Status:      e.Status,
		})
	}
	return reply
}
