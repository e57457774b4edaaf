package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/warblerhq/warbler/internal/application"
	"github.com/warblerhq/warbler/internal/domain/entity"
)

func userJSON(u *entity.User) gin.H {
	return gin.H{
		"id":               u.ID,
		"username":         u.Username,
		"email":            u.Email,
		"image_url":        u.ImageURL,
		"header_image_url": u.HeaderImageURL,
		"bio":              u.Bio,
		"location":         u.Location,
		"created_at":       u.CreatedAt,
	}
}

func usersJSON(users []*entity.User) []gin.H {
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, userJSON(u))
	}
	return out
}

func messageJSON(m *entity.Message) gin.H {
	return gin.H{
		"id":         m.ID,
		"user_id":    m.UserID,
		"text":       m.Text,
		"created_at": m.CreatedAt,
		"username":   m.Username,
		"image_url":  m.ImageURL,
	}
}

func messagesJSON(msgs []*entity.Message) []gin.H {
	out := make([]gin.H, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageJSON(m))
	}
	return out
}

func profileJSON(p *application.Profile) gin.H {
	return gin.H{
		"user":              userJSON(p.User),
		"messages":          messagesJSON(p.Messages),
		"likes_given_count": p.LikesGivenCount,
		"following_count":   p.FollowingCount,
		"followers_count":   p.FollowersCount,
	}
}
