package models

import (
	"slices"
	"time"
)

type Channel string

const (
	ChannelAny      Channel = ""
	ChannelInStore  Channel = "in_store"
	ChannelCurbside Channel = "curbside"
	ChannelDelivery Channel = "delivery"
	ChannelEcomm    Channel = "ecomm"
)

var ValidChannels = []Channel{ChannelAny, ChannelInStore, ChannelCurbside, ChannelDelivery, ChannelEcomm}

func (c Channel) IsValid() bool {
	return slices.Contains(ValidChannels, c)
}

// Filters are contextual hints handed to the LLM. They are never applied to the SQL by the server.
type Filters struct {
	Store      string
	Department string
	Channel    Channel
	DateFrom   *time.Time
	DateTo     *time.Time
}

func (f Filters) HasDateRange() bool {
	return f.DateFrom != nil || f.DateTo != nil
}

func (f Filters) IsEmpty() bool {
	return f.Store == "" && f.Department == "" && f.Channel == ChannelAny && !f.HasDateRange()
}
