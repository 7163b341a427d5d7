package handlers

import (
	"github.com/gin-gonic/gin"

	"videotube/pkg/apierr"
	"videotube/pkg/respond"
)

type playlistRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

func (api *API) CreatePlaylist(c *gin.Context) error {
	var req playlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return apierr.BadRequest("name and description are both required")
	}
	playlist, err := api.store.CreatePlaylist(c.Request.Context(), currentUserID(c), req.Name, req.Description)
	if err != nil {
		return err
	}
	respond.Created(c, playlist, "playlist created successfully")
	return nil
}

func (api *API) GetUserPlaylists(c *gin.Context) error {
	playlists, err := api.store.PlaylistsByOwner(c.Request.Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	message := "user playlists fetched successfully"
	if len(playlists) == 0 {
		message = "user has no playlists"
	}
	respond.OK(c, playlists, message)
	return nil
}

func (api *API) GetPlaylistByID(c *gin.Context) error {
	view, err := api.store.PlaylistDetail(c.Request.Context(), c.Param("playlistId"))
	if err != nil {
		return err
	}
	respond.OK(c, view, "playlist fetched successfully")
	return nil
}

func (api *API) UpdatePlaylist(c *gin.Context) error {
	var req playlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return apierr.BadRequest("name and description are both required")
	}
	playlist, err := api.store.UpdatePlaylist(c.Request.Context(),
		c.Param("playlistId"), currentUserID(c), req.Name, req.Description)
	if err != nil {
		return err
	}
	respond.OK(c, playlist, "playlist updated successfully")
	return nil
}

func (api *API) DeletePlaylist(c *gin.Context) error {
	if err := api.store.DeletePlaylist(c.Request.Context(), c.Param("playlistId"), currentUserID(c)); err != nil {
		return err
	}
	respond.OK(c, nil, "playlist deleted successfully")
	return nil
}

func (api *API) AddVideoToPlaylist(c *gin.Context) error {
	playlist, err := api.store.AddVideo(c.Request.Context(),
		c.Param("playlistId"), c.Param("videoId"), currentUserID(c))
	if err != nil {
		return err
	}
	respond.OK(c, playlist, "video added to playlist")
	return nil
}

func (api *API) RemoveVideoFromPlaylist(c *gin.Context) error {
	playlist, err := api.store.RemoveVideo(c.Request.Context(),
		c.Param("playlistId"), c.Param("videoId"), currentUserID(c))
	if err != nil {
		return err
	}
	respond.OK(c, playlist, "video removed from playlist")
	return nil
}
