package service

import (
	"strings"

	"github.com/Kotlang/photoFeedGo/models"
	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// All input validations should be added here.

var validate = validator.New()

func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}

func ValidateCommentRequest(req *models.CommentRequest) error {
	req.Content = strings.TrimSpace(req.Content)
	if len(req.Content) == 0 {
		return status.Error(codes.InvalidArgument, "Comment text is empty.")
	}
	return ValidateRequest(req)
}
