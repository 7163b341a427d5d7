package handlers

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"videotube/pkg/apierr"
	"videotube/pkg/models"
	"videotube/pkg/respond"
	"videotube/pkg/store"
)

// GetAllVideos serves the paginated feed. Query parameters: page, limit,
// query, sortBy, sortType, userId.
func (api *API) GetAllVideos(c *gin.Context) error {
	page, err := positiveIntQuery(c, "page", 1)
	if err != nil {
		return err
	}
	limit, err := positiveIntQuery(c, "limit", 10)
	if err != nil {
		return err
	}

	feed, err := api.store.Feed(c.Request.Context(), store.FeedParams{
		Page:     page,
		Limit:    limit,
		Query:    c.Query("query"),
		SortBy:   c.Query("sortBy"),
		SortType: c.Query("sortType"),
		UserID:   c.Query("userId"),
	})
	if err != nil {
		return err
	}

	message := "videos fetched successfully"
	if len(feed.Videos) == 0 {
		message = "no videos found"
	}
	respond.OK(c, feed, message)
	return nil
}

func positiveIntQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apierr.BadRequest("%s must be a positive integer", name)
	}
	return n, nil
}

// PublishVideo accepts a multipart upload, stages the files to the temp
// dir, pushes them to the media host and records the video.
func (api *API) PublishVideo(c *gin.Context) error {
	title := c.PostForm("title")
	if title == "" {
		return apierr.BadRequest("title is required for video uploading")
	}
	description := c.PostForm("description")
	if description == "" {
		return apierr.BadRequest("description is required for video uploading")
	}
	duration, _ := strconv.ParseFloat(c.PostForm("duration"), 64)

	fileHeader, err := c.FormFile("video")
	if err != nil {
		return apierr.BadRequest("video file not found in form data")
	}
	if api.media == nil {
		return apierr.Upstream(nil, "media host is not configured")
	}

	videoID := uuid.NewString()
	videoURL, err := api.stageAndUpload(c, fileHeader, videoID)
	if err != nil {
		return err
	}

	thumbnailURL := ""
	if th, thErr := c.FormFile("thumbnail"); thErr == nil {
		thumbnailURL, err = api.stageAndUpload(c, th, videoID)
		if err != nil {
			return err
		}
	}

	video := &models.Video{
		ID:          videoID,
		OwnerID:     currentUserID(c),
		VideoFile:   videoURL,
		Thumbnail:   thumbnailURL,
		Title:       title,
		Description: description,
		Duration:    duration,
		IsPublished: true,
	}
	if err := api.store.CreateVideo(c.Request.Context(), video); err != nil {
		return err
	}
	respond.Created(c, video, "video published successfully")
	return nil
}

// stageAndUpload copies a form file to the temp dir, then pushes it to the
// media host under a key scoped by the video id.
func (api *API) stageAndUpload(c *gin.Context, fileHeader *multipart.FileHeader, videoID string) (string, error) {
	filename := fileHeader.Filename
	if err := os.MkdirAll(api.cfg.TempDir, os.ModePerm); err != nil {
		return "", apierr.Upstream(err, "failed to create temporary directory")
	}
	tempPath := filepath.Join(api.cfg.TempDir, videoID+"_"+filepath.Base(filename))
	if err := c.SaveUploadedFile(fileHeader, tempPath); err != nil {
		return "", apierr.Upstream(err, "failed to save uploaded file")
	}
	defer os.Remove(tempPath)

	f, err := os.Open(tempPath)
	if err != nil {
		return "", apierr.Upstream(err, "failed to open uploaded file")
	}
	defer f.Close()

	key := fmt.Sprintf("%s/%s", videoID, filepath.Base(filename))
	url, err := api.media.Upload(c.Request.Context(), f, key)
	if err != nil {
		return "", apierr.Upstream(err, "failed to upload file to media host")
	}
	return url, nil
}

func (api *API) GetVideoByID(c *gin.Context) error {
	video, err := api.store.WatchVideo(c.Request.Context(), c.Param("videoId"))
	if err != nil {
		return err
	}
	respond.OK(c, video, "video fetched successfully")
	return nil
}

type updateVideoRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

func (api *API) UpdateVideo(c *gin.Context) error {
	var req updateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return apierr.BadRequest("title and description are both required")
	}
	video, err := api.store.UpdateVideo(c.Request.Context(),
		c.Param("videoId"), currentUserID(c), req.Title, req.Description)
	if err != nil {
		return err
	}
	respond.OK(c, video, "video updated successfully")
	return nil
}

func (api *API) DeleteVideo(c *gin.Context) error {
	if err := api.store.DeleteVideo(c.Request.Context(), c.Param("videoId"), currentUserID(c)); err != nil {
		return err
	}
	respond.OK(c, nil, "video deleted successfully")
	return nil
}

func (api *API) TogglePublishStatus(c *gin.Context) error {
	video, err := api.store.TogglePublish(c.Request.Context(), c.Param("videoId"), currentUserID(c))
	if err != nil {
		return err
	}
	message := "video unpublished successfully"
	if video.IsPublished {
		message = "video published successfully"
	}
	respond.OK(c, video, message)
	return nil
}
