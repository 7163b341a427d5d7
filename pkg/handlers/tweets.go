package handlers

import (
	"github.com/gin-gonic/gin"

	"videotube/pkg/apierr"
	"videotube/pkg/respond"
)

type tweetRequest struct {
	Content string `json:"content" binding:"required"`
}

func (api *API) CreateTweet(c *gin.Context) error {
	var req tweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return apierr.BadRequest("content is required")
	}
	tweet, err := api.store.CreateTweet(c.Request.Context(), currentUserID(c), req.Content)
	if err != nil {
		return err
	}
	respond.Created(c, tweet, "tweet created successfully")
	return nil
}

func (api *API) GetUserTweets(c *gin.Context) error {
	tweets, err := api.store.TweetsByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	message := "user tweets fetched successfully"
	if len(tweets) == 0 {
		message = "user has no tweets"
	}
	respond.OK(c, tweets, message)
	return nil
}

func (api *API) UpdateTweet(c *gin.Context) error {
	var req tweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return apierr.BadRequest("content is required")
	}
	tweet, err := api.store.UpdateTweet(c.Request.Context(),
		c.Param("tweetId"), currentUserID(c), req.Content)
	if err != nil {
		return err
	}
	respond.OK(c, tweet, "tweet updated successfully")
	return nil
}

func (api *API) DeleteTweet(c *gin.Context) error {
	if err := api.store.DeleteTweet(c.Request.Context(), c.Param("tweetId"), currentUserID(c)); err != nil {
		return err
	}
	respond.OK(c, nil, "tweet deleted successfully")
	return nil
}
