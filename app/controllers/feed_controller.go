package controllers

import (
	"github.com/shashiranjanraj/mockshop/pkg/ctx"
	"github.com/shashiranjanraj/mockshop/pkg/ws"
)

// FeedController upgrades admins onto the live order feed.
type FeedController struct {
	hub *ws.Hub
}

func NewFeedController(hub *ws.Hub) *FeedController {
	return &FeedController{hub: hub}
}

func (h *FeedController) Orders(c *ctx.Context) {
	ws.Upgrade(c.W, c.R, h.hub)
}
