package handler

import (
	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
)

// urlResolver is the part of the asset store responses need.
type urlResolver interface {
	URLFor(filename string, category domain.AssetCategory) string
}

func toUserResponse(u *domain.User, urls urlResolver) userResponse {
	resp := userResponse{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		Role:     string(u.Role),
		Profile: profileResponse{
			FullName:     u.Profile.FullName,
			Headline:     u.Profile.Headline,
			Bio:          u.Profile.Bio,
			Location:     u.Profile.Location,
			ProfileImage: u.Profile.ProfileImage,
		},
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.Profile.ProfileImage != "" && urls != nil {
		resp.Profile.ProfileImageURL = urls.URLFor(u.Profile.ProfileImage, domain.CategoryProfileImage)
	}
	return resp
}

func toUploadResponse(a *domain.Asset) uploadResponse {
	return uploadResponse{
		Filename:     a.Filename,
		OriginalName: a.OriginalName,
		Size:         a.Size,
		URL:          a.URL,
	}
}

func toListUsersResponse(res *ports.ListUsersResult, urls urlResolver) listUsersResponse {
	items := make([]userResponse, 0, len(res.Items))
	for _, u := range res.Items {
		items = append(items, toUserResponse(u, urls))
	}
	return listUsersResponse{
		Items:      items,
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
	}
}

func toProfileUpdate(req updateProfileRequest) domain.ProfileUpdate {
	return domain.ProfileUpdate{
		FullName: req.FullName,
		Headline: req.Headline,
		Bio:      req.Bio,
		Location: req.Location,
	}
}
