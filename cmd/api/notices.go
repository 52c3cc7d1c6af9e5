package main

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"listings/internal/notice"
)

// NoticeInput identifies a notice for a client
type NoticeInput struct {
	Notice string `path:"notice" example:"age-verification" doc:"Notice identifier: age-verification or safety-tips"`
	Client string `query:"client" required:"true" doc:"Client UUID generated by the front end"`
}

// GetNoticeOutput tells the client whether to render the notice
type GetNoticeOutput struct {
	Body struct {
		Show bool `json:"show"`
	}
}

func (app *App) handleGetNotice(ctx context.Context, input *NoticeInput) (*GetNoticeOutput, error) {
	show, err := app.noticeService.ShouldShow(ctx, input.Client, input.Notice)
	if err != nil {
		return nil, noticeError(err)
	}

	resp := &GetNoticeOutput{}
	resp.Body.Show = show
	return resp, nil
}

func (app *App) handleDismissNotice(ctx context.Context, input *NoticeInput) (*struct{}, error) {
	if err := app.noticeService.Dismiss(ctx, input.Client, input.Notice); err != nil {
		if errors.Is(err, notice.ErrUnknownNotice) || errors.Is(err, notice.ErrInvalidClient) {
			return nil, noticeError(err)
		}
		app.logger.Error("failed to dismiss notice", "notice", input.Notice, "error", err)
		return nil, huma.Error500InternalServerError("failed to dismiss notice")
	}
	return nil, nil
}

func noticeError(err error) error {
	switch {
	case errors.Is(err, notice.ErrUnknownNotice):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, notice.ErrInvalidClient):
		return huma.Error400BadRequest(err.Error())
	default:
		return huma.Error500InternalServerError("failed to read notice")
	}
}
