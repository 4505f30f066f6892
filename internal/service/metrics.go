package service

import "github.com/prometheus/client_golang/prometheus"

var events = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "whosbook_events_total", Help: "Count of curation and social events"},
	[]string{"event"},
)

func init() { prometheus.MustRegister(events) }

const (
	evCurationCreated = "curation_created"
	evCurationUpdated = "curation_updated"
	evCurationDeleted = "curation_deleted"
	evBookRelinked    = "book_relinked"
	evLiked           = "liked"
	evUnliked         = "unliked"
	evSubscribed      = "subscribed"
	evUnsubscribed    = "unsubscribed"
	evMemberJoined    = "member_joined"
	evMemberDeleted   = "member_deleted"
	evMemberBanned    = "member_banned"
)

func count(ev string) { events.WithLabelValues(ev).Inc() }
