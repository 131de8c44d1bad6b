package hygraph

import (
	"context"
	"strings"
	"time"

	"github.com/dfryer1193/pressroom/blog/domain"
)

var _ domain.ContentStore = (*ContentStore)(nil)

// ContentStore implements domain.ContentStore against the CMS GraphQL API.
type ContentStore struct {
	client *Client
}

func NewContentStore(client *Client) *ContentStore {
	return &ContentStore{
		client: client,
	}
}

const postBySlugQuery = `
	query PostBySlug($slug: String!) {
		post(where: { slug: $slug }) {
			id
			slug
			title
			tag {
				slug
			}
		}
	}
`

// PostBySlug returns the post at slug with its connected tag slugs, or
// (nil, nil) if no post exists there.
func (s *ContentStore) PostBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	var resp struct {
		Post *struct {
			ID    string `json:"id"`
			Slug  string `json:"slug"`
			Title string `json:"title"`
			Tag   []struct {
				Slug string `json:"slug"`
			} `json:"tag"`
		} `json:"post"`
	}

	if err := s.client.Do(ctx, "fetching post by slug", postBySlugQuery, map[string]any{"slug": slug}, &resp); err != nil {
		return nil, err
	}

	if resp.Post == nil {
		return nil, nil
	}

	post := &domain.Post{
		ID:    resp.Post.ID,
		Slug:  resp.Post.Slug,
		Title: resp.Post.Title,
	}
	for _, tag := range resp.Post.Tag {
		post.TagSlugs = append(post.TagSlugs, tag.Slug)
	}

	return post, nil
}

const authorByEmailQuery = `
	query AuthorByEmail($email: String!) {
		author(where: { email: $email }) {
			id
			name
			email
		}
	}
`

// AuthorByEmail returns the author registered under email, or (nil, nil).
func (s *ContentStore) AuthorByEmail(ctx context.Context, email string) (*domain.Author, error) {
	var resp struct {
		Author *struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"author"`
	}

	if err := s.client.Do(ctx, "fetching author by email", authorByEmailQuery, map[string]any{"email": email}, &resp); err != nil {
		return nil, err
	}

	if resp.Author == nil {
		return nil, nil
	}

	return &domain.Author{
		ID:    resp.Author.ID,
		Name:  resp.Author.Name,
		Email: resp.Author.Email,
	}, nil
}

const tagsQuery = `
	query Tags {
		tags {
			name
			slug
		}
	}
`

// TagsByName matches requested names case-insensitively. The CMS name_in
// filter compares exactly, so the tag list is fetched and filtered here; the
// corpus is a blog's tag set, not a table worth paginating.
func (s *ContentStore) TagsByName(ctx context.Context, names []string) ([]domain.TagRef, error) {
	var resp struct {
		Tags []struct {
			Name string `json:"name"`
			Slug string `json:"slug"`
		} `json:"tags"`
	}

	if err := s.client.Do(ctx, "fetching tags", tagsQuery, nil, &resp); err != nil {
		return nil, err
	}

	requested := make(map[string]bool, len(names))
	for _, name := range names {
		requested[strings.ToLower(name)] = true
	}

	refs := make([]domain.TagRef, 0, len(names))
	for _, tag := range resp.Tags {
		if requested[strings.ToLower(tag.Name)] {
			refs = append(refs, domain.TagRef{Name: tag.Name, Slug: tag.Slug})
		}
	}

	return refs, nil
}

const createPostMutation = `
	mutation CreatePost($title: String!, $content: String!, $slug: String!, $date: Date!, $tag: [TagWhereUniqueInput!], $authorId: ID!) {
		createPost(data: {
			title: $title,
			content: $content,
			slug: $slug,
			date: $date,
			author: { connect: { id: $authorId } },
			tag: { connect: $tag }
		}) {
			id
		}
	}
`

func (s *ContentStore) CreatePost(ctx context.Context, in domain.CreatePostInput) (string, error) {
	var resp struct {
		CreatePost struct {
			ID string `json:"id"`
		} `json:"createPost"`
	}

	err := s.client.Do(ctx, "creating post", createPostMutation, map[string]any{
		"title":    in.Title,
		"content":  in.Content,
		"slug":     in.Slug,
		"date":     in.Date.Format(time.RFC3339),
		"tag":      tagWhereInputs(in.TagSlugs),
		"authorId": in.AuthorID,
	}, &resp)
	if err != nil {
		return "", err
	}

	return resp.CreatePost.ID, nil
}

const updatePostMutation = `
	mutation UpdatePost($id: ID!, $title: String!, $slug: String!, $content: String!, $connect: [TagConnectInput!], $disconnect: [TagWhereUniqueInput!], $authorId: ID!) {
		updatePost(
			where: { id: $id }
			data: {
				title: $title,
				slug: $slug,
				content: $content,
				tag: { connect: $connect, disconnect: $disconnect },
				author: { connect: { id: $authorId } }
			}
		) {
			id
			slug
		}
	}
`

func (s *ContentStore) UpdatePost(ctx context.Context, in domain.UpdatePostInput) error {
	connect := make([]map[string]any, 0, len(in.ConnectTagSlugs))
	for _, slug := range in.ConnectTagSlugs {
		connect = append(connect, map[string]any{"where": map[string]any{"slug": slug}})
	}

	return s.client.Do(ctx, "updating post", updatePostMutation, map[string]any{
		"id":         in.ID,
		"title":      in.Title,
		"slug":       in.Slug,
		"content":    in.Content,
		"connect":    connect,
		"disconnect": tagWhereInputs(in.DisconnectTagSlugs),
		"authorId":   in.AuthorID,
	}, nil)
}

const publishPostMutation = `
	mutation PublishPost($id: ID!) {
		publishPost(where: { id: $id }) {
			id
		}
	}
`

func (s *ContentStore) PublishPost(ctx context.Context, id string) error {
	return s.client.Do(ctx, "publishing post", publishPostMutation, map[string]any{"id": id}, nil)
}

const unpublishPostMutation = `
	mutation UnpublishPost($id: ID!) {
		unpublishPost(where: { id: $id }) {
			id
		}
	}
`

func (s *ContentStore) UnpublishPost(ctx context.Context, id string) error {
	return s.client.Do(ctx, "unpublishing post", unpublishPostMutation, map[string]any{"id": id}, nil)
}

const deletePostMutation = `
	mutation DeletePost($id: ID!) {
		deletePost(where: { id: $id }) {
			id
		}
	}
`

func (s *ContentStore) DeletePost(ctx context.Context, id string) error {
	return s.client.Do(ctx, "deleting post", deletePostMutation, map[string]any{"id": id}, nil)
}

const createTagMutation = `
	mutation CreateTag($name: String!, $slug: String!) {
		createTag(data: { name: $name, slug: $slug }) {
			slug
		}
	}
`

func (s *ContentStore) CreateTag(ctx context.Context, name string, slug string) (string, error) {
	var resp struct {
		CreateTag struct {
			Slug string `json:"slug"`
		} `json:"createTag"`
	}

	err := s.client.Do(ctx, "creating tag", createTagMutation, map[string]any{
		"name": name,
		"slug": slug,
	}, &resp)
	if err != nil {
		return "", err
	}

	return resp.CreateTag.Slug, nil
}

const publishTagMutation = `
	mutation PublishTag($slug: String!) {
		publishTag(where: { slug: $slug }) {
			id
		}
	}
`

func (s *ContentStore) PublishTag(ctx context.Context, slug string) error {
	return s.client.Do(ctx, "publishing tag", publishTagMutation, map[string]any{"slug": slug}, nil)
}

const createAuthorMutation = `
	mutation CreateAuthor($name: String!, $email: String!, $title: String!, $slug: String!, $bio: String!) {
		createAuthor(data: {
			name: $name,
			email: $email,
			title: $title,
			slug: $slug,
			bio: $bio
		}) {
			id
		}
	}
`

func (s *ContentStore) CreateAuthor(ctx context.Context, a *domain.Author) (string, error) {
	var resp struct {
		CreateAuthor struct {
			ID string `json:"id"`
		} `json:"createAuthor"`
	}

	err := s.client.Do(ctx, "creating author", createAuthorMutation, map[string]any{
		"name":  a.Name,
		"email": a.Email,
		"title": a.Title,
		"slug":  a.Slug,
		"bio":   a.Bio,
	}, &resp)
	if err != nil {
		return "", err
	}

	return resp.CreateAuthor.ID, nil
}

const publishAuthorMutation = `
	mutation PublishAuthor($slug: String!) {
		publishAuthor(where: { slug: $slug }) {
			id
		}
	}
`

func (s *ContentStore) PublishAuthor(ctx context.Context, slug string) error {
	return s.client.Do(ctx, "publishing author", publishAuthorMutation, map[string]any{"slug": slug}, nil)
}

const publishRelatedMutation = `
	mutation PublishRelated($authorId: ID!, $tags: [TagWhereUniqueInput!]) {
		publishAuthor(where: { id: $authorId }) {
			id
		}
		publishManyTags(where: { OR: $tags }) {
			count
		}
	}
`

func (s *ContentStore) PublishRelated(ctx context.Context, authorID string, tagSlugs []string) error {
	return s.client.Do(ctx, "publishing related content", publishRelatedMutation, map[string]any{
		"authorId": authorID,
		"tags":     tagWhereInputs(tagSlugs),
	}, nil)
}

func tagWhereInputs(slugs []string) []map[string]any {
	inputs := make([]map[string]any, 0, len(slugs))
	for _, slug := range slugs {
		inputs = append(inputs, map[string]any{"slug": slug})
	}
	return inputs
}
