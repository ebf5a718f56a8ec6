package mail

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	dto "github.com/dropDatabas3/hellomail/internal/http/dto/mail"
	"github.com/dropDatabas3/hellomail/internal/email"
	httperrors "github.com/dropDatabas3/hellomail/internal/http/errors"
	"github.com/dropDatabas3/hellomail/internal/http/helpers"
	mw "github.com/dropDatabas3/hellomail/internal/http/middlewares"
	svc "github.com/dropDatabas3/hellomail/internal/http/services/mail"
	"github.com/dropDatabas3/hellomail/internal/observability/logger"
)

const (
	attachmentsField = "attachments"
	maxFieldBytes    = 1 << 20
)

// Limits acota los adjuntos aceptados por request.
type Limits struct {
	MaxAttachments     int
	MaxAttachmentBytes int64
}

// SendController maneja el envío de emails.
type SendController struct {
	service svc.DispatchService
	limits  Limits
}

// NewSendController crea un nuevo controller de envío.
func NewSendController(service svc.DispatchService, limits Limits) *SendController {
	if limits.MaxAttachments <= 0 {
		limits.MaxAttachments = 5
	}
	if limits.MaxAttachmentBytes <= 0 {
		limits.MaxAttachmentBytes = 10 << 20
	}
	return &SendController{service: service, limits: limits}
}

// Send maneja POST /api/mail/send (JSON o multipart/form-data).
func (c *SendController) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("SendController.Send"))

	var (
		req         dto.SendRequest
		attachments []email.Attachment
		err         error
	)

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case mt == "multipart/form-data":
		req, attachments, err = c.readMultipart(w, r)
	case mt == "" || helpers.IsJSON(r):
		err = helpers.ReadJSON(w, r, &req)
	default:
		err = httperrors.ErrBadRequest.WithDetail("Content-Type debe ser application/json o multipart/form-data")
	}
	if err != nil {
		handleError(w, log, err)
		return
	}

	res, err := c.service.Send(ctx, svc.SendInput{
		UserID:         mw.GetUserID(ctx),
		RecruiterEmail: req.RecruiterEmail,
		Subject:        req.Subject,
		Body:           req.Body,
		Attachments:    attachments,
	})
	if err != nil {
		handleError(w, log, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.SendResponse{
		Message:   "Email sent successfully",
		MessageID: res.MessageID,
	})
}

// readMultipart lee los campos de texto y hasta MaxAttachments archivos
// "attachments" en memoria, sin pasar por disco.
func (c *SendController) readMultipart(w http.ResponseWriter, r *http.Request) (dto.SendRequest, []email.Attachment, error) {
	var req dto.SendRequest

	// Tope global: todos los adjuntos al máximo + campos + overhead de boundaries.
	total := int64(c.limits.MaxAttachments)*c.limits.MaxAttachmentBytes + 4*maxFieldBytes
	r.Body = http.MaxBytesReader(w, r.Body, total)
	defer r.Body.Close()

	mr, err := r.MultipartReader()
	if err != nil {
		return req, nil, httperrors.ErrBadRequest.WithDetail("invalid multipart body").WithCause(err)
	}

	var atts []email.Attachment
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return req, nil, multipartError(err)
		}

		if part.FileName() == "" {
			v, err := readLimited(part, maxFieldBytes)
			if err != nil {
				return req, nil, err
			}
			switch part.FormName() {
			case "recruiterEmail":
				req.RecruiterEmail = string(v)
			case "subject":
				req.Subject = string(v)
			case "body":
				req.Body = string(v)
			}
			continue
		}

		if part.FormName() != attachmentsField {
			return req, nil, httperrors.ErrBadRequest.WithDetail("unexpected file field " + part.FormName())
		}
		if len(atts) >= c.limits.MaxAttachments {
			return req, nil, httperrors.ErrTooManyAttachments
		}
		data, err := readLimited(part, c.limits.MaxAttachmentBytes)
		if err != nil {
			return req, nil, err
		}
		atts = append(atts, email.Attachment{
			Filename:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return req, atts, nil
}

// readLimited lee hasta max bytes; más que eso es BODY_TOO_LARGE.
func readLimited(p *multipart.Part, max int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(p, max+1))
	if err != nil {
		return nil, multipartError(err)
	}
	if int64(len(b)) > max {
		return nil, httperrors.ErrBodyTooLarge.WithDetail("part " + strings.TrimSpace(p.FormName()) + " exceeds size limit")
	}
	return b, nil
}

func multipartError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return httperrors.ErrBodyTooLarge.WithCause(err)
	}
	return httperrors.ErrBadRequest.WithDetail("invalid multipart body").WithCause(err)
}
