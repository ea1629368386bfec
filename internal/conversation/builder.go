// Package conversation partitions flat message lists into per-client
// conversation threads.
package conversation

import (
	"sort"

	"github.com/nurlansk/conversation-reports/internal/model"
)

// Build groups messages by the non-bot endpoint and sorts each group by
// message ID. A message sent from botPhone belongs to its recipient's
// conversation, anything else to its sender's; bad data never drops a
// message, it just lands in whichever conversation the rule picks.
//
// Groups come out in first-seen order. Callers must not depend on that,
// only on the ordering of messages within a conversation.
func Build(msgs []model.Message, botPhone string) []model.Conversation {
	byClient := make(map[string][]model.Message)
	var order []string

	for _, m := range msgs {
		client := m.FromPhone
		if m.FromPhone == botPhone {
			client = m.ToPhone
		}
		if _, ok := byClient[client]; !ok {
			order = append(order, client)
		}
		byClient[client] = append(byClient[client], m)
	}

	convs := make([]model.Conversation, 0, len(order))
	for _, client := range order {
		group := byClient[client]
		sort.SliceStable(group, func(i, j int) bool { return group[i].ID < group[j].ID })
		convs = append(convs, model.Conversation{
			ClientPhone: client,
			Messages:    group,
		})
	}
	return convs
}
