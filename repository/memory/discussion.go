package memory

import (
	"context"
	"strings"

	"learnhub/models"
	"learnhub/repository"
)

type Forum struct {
	topics  *table[models.ForumTopic, *models.ForumTopic]
	replies *table[models.ForumReply, *models.ForumReply]
}

func NewForum() *Forum {
	return &Forum{
		topics: newTable[models.ForumTopic, *models.ForumTopic](func(t models.ForumTopic) models.ForumTopic {
			t.Upvotes = t.Upvotes.Clone()
			t.Tags = append([]string(nil), t.Tags...)
			return t
		}),
		replies: newTable[models.ForumReply, *models.ForumReply](func(r models.ForumReply) models.ForumReply {
			r.Upvotes = r.Upvotes.Clone()
			return r
		}),
	}
}

var _ repository.ForumRepo = (*Forum)(nil)

func (r *Forum) CreateTopic(_ context.Context, t *models.ForumTopic) error {
	r.topics.insert(t)
	return nil
}

func (r *Forum) GetTopic(_ context.Context, id uint) (*models.ForumTopic, error) {
	return r.topics.get(id)
}

func (r *Forum) SaveTopic(_ context.Context, t *models.ForumTopic) error {
	r.topics.save(t)
	return nil
}

func (r *Forum) ListTopics(_ context.Context, f repository.TopicFilter) ([]models.ForumTopic, int64, error) {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	rows := r.topics.filter(func(t *models.ForumTopic) bool {
		if f.CourseID != 0 && (t.CourseID == nil || *t.CourseID != f.CourseID) {
			return false
		}
		if f.PostType != "" && t.PostType != f.PostType {
			return false
		}
		return search == "" || strings.Contains(strings.ToLower(t.Title), search)
	})
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return paginate(rows, f.Page), int64(len(rows)), nil
}

func (r *Forum) ReplyCounts(_ context.Context, topicIDs []uint) (map[uint]int64, error) {
	want := map[uint]bool{}
	for _, id := range topicIDs {
		want[id] = true
	}
	counts := map[uint]int64{}
	for _, reply := range r.replies.filter(func(x *models.ForumReply) bool { return want[x.TopicID] }) {
		counts[reply.TopicID]++
	}
	return counts, nil
}

func (r *Forum) CreateReply(_ context.Context, reply *models.ForumReply) error {
	r.replies.insert(reply)
	return nil
}

func (r *Forum) GetReply(_ context.Context, id uint) (*models.ForumReply, error) {
	return r.replies.get(id)
}

func (r *Forum) SaveReply(_ context.Context, reply *models.ForumReply) error {
	r.replies.save(reply)
	return nil
}

func (r *Forum) ListReplies(_ context.Context, topicID uint) ([]models.ForumReply, error) {
	return r.replies.filter(func(x *models.ForumReply) bool { return x.TopicID == topicID }), nil
}

type Comments struct {
	t *table[models.Comment, *models.Comment]
}

func NewComments() *Comments {
	return &Comments{t: newTable[models.Comment, *models.Comment](func(c models.Comment) models.Comment {
		c.Likes = c.Likes.Clone()
		return c
	})}
}

var _ repository.CommentRepo = (*Comments)(nil)

func (r *Comments) Create(_ context.Context, c *models.Comment) error {
	r.t.insert(c)
	return nil
}

func (r *Comments) GetByID(_ context.Context, id uint) (*models.Comment, error) {
	return r.t.get(id)
}

func (r *Comments) Save(_ context.Context, c *models.Comment) error {
	r.t.save(c)
	return nil
}

func (r *Comments) ListByLecture(_ context.Context, lectureID uint) ([]models.Comment, error) {
	return r.t.filter(func(c *models.Comment) bool { return c.LectureID == lectureID }), nil
}
