package api

import (
	"context"
	"net/http"

	"github.com/brightline-studio/site-backend/content"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// PostResolver is satisfied by *content.Resolver.
type PostResolver interface {
	ResolvePost(ctx context.Context, slug string) (*content.ResolvedPost, error)
	ListAllPosts(ctx context.Context) ([]content.PostSummary, error)
}

type blogPostHandler struct {
	responder Responder
	logger    zerolog.Logger
	resolver  PostResolver
}

func newBlogPostHandler(resolver PostResolver) blogPostHandler {
	logger := log.With().Str("handlerName", "blogPostHandler").Logger()

	return blogPostHandler{
		responder: NewResponder(logger),
		logger:    logger,
		resolver:  resolver,
	}
}

// BlogPostCollection is the blog index: metadata only, newest first
type BlogPostCollection struct {
	Posts []content.PostSummary `json:"posts"`
	Total int                   `json:"total"`
}

// getAllBlogPosts lists every published post across both content sources
// @Summary Get all blog posts
// @Description Lists compiled and markdown posts as slug and front matter pairs, newest first. Posts without a title are omitted.
// @Tags Blog Posts
// @Produce json
// @Success 200 {object} BlogPostCollection "List of posts"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /api/blog/posts [get]
func (h blogPostHandler) getAllBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.resolver.ListAllPosts(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		// Return [] not null for empty lists
		if posts == nil {
			posts = []content.PostSummary{}
		}

		h.responder.WriteJSON(w, BlogPostCollection{Posts: posts, Total: len(posts)})
	}
}

// getBlogPost resolves one post by slug
// @Summary Get blog post
// @Description Returns the rendered post. A compiled post wins over a markdown file with the same slug.
// @Tags Blog Posts
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} content.ResolvedPost "Rendered post"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid slug"
// @Failure 404 {object} ErrorResponse "Not Found - No source has the slug"
// @Router /api/blog/posts/{slug} [get]
func (h blogPostHandler) getBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		post, err := h.resolver.ResolvePost(r.Context(), slug)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}
