// Package jobs holds the queued background work of the shop.
package jobs

import "github.com/shashiranjanraj/mockshop/pkg/queue"

// Register makes every job decodable by the queue workers.
func Register() {
	queue.Register(ConfirmOrderName, func() queue.Job { return &ConfirmOrderJob{} })
	queue.Register(SendOrderMailName, func() queue.Job { return &SendOrderMailJob{} })
}
