package handlers

import (
	"github.com/gin-gonic/gin"

	"videotube/pkg/respond"
)

func (api *API) ToggleSubscription(c *gin.Context) error {
	subscribed, err := api.store.ToggleSubscription(c.Request.Context(),
		currentUserID(c), c.Param("channelId"))
	if err != nil {
		return err
	}
	message := "channel unsubscribed successfully"
	if subscribed {
		message = "channel subscribed successfully"
	}
	respond.OK(c, gin.H{"subscribed": subscribed}, message)
	return nil
}

func (api *API) GetChannelSubscribers(c *gin.Context) error {
	subscribers, err := api.store.Subscribers(c.Request.Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	respond.OK(c, subscribers, "subscribers list fetched successfully")
	return nil
}

func (api *API) GetSubscribedChannels(c *gin.Context) error {
	channels, err := api.store.SubscribedChannels(c.Request.Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	respond.OK(c, channels, "channel list fetched successfully")
	return nil
}
