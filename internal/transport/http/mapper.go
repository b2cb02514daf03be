package http

import (
	"encoding/json"

	"github.com/bloxcord/bloxcord-server/internal/core"
	"github.com/bloxcord/bloxcord-server/internal/proto"
)

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoinChannel:
		var join proto.JoinChannelData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		if join.ChannelID == "" || join.Username == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "channelId and username are required"}, nil
		}
		return &core.Command{
			Kind:      core.CommandJoinChannel,
			ChannelID: join.ChannelID,
			Username:  join.Username,
			UserID:    join.UserID,
			PlaceID:   join.PlaceID,
		}, nil, nil
	case proto.InboundTypeSendMessage:
		var msg proto.SendMessageData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:      core.CommandSendMessage,
			ChannelID: msg.ChannelID,
			Username:  msg.Username,
			UserID:    msg.UserID,
			Content:   msg.Content,
		}, nil, nil
	case proto.InboundTypeNotifyTyping:
		var typing proto.NotifyTypingData
		if err := json.Unmarshal(inbound.Data, &typing); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:      core.CommandNotifyTyping,
			ChannelID: typing.ChannelID,
			Username:  typing.Username,
			IsTyping:  typing.IsTyping,
		}, nil, nil
	case proto.InboundTypeSearchUsers:
		var search proto.SearchUsersData
		if err := json.Unmarshal(inbound.Data, &search); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:  core.CommandSearchUsers,
			Query: search.Query,
		}, nil, nil
	case proto.InboundTypeGetGames:
		return &core.Command{Kind: core.CommandGetGames}, nil, nil
	case proto.InboundTypeSendPrivateMessage:
		var pm proto.SendPrivateMessageData
		if err := json.Unmarshal(inbound.Data, &pm); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:         core.CommandSendPrivateMessage,
			ToUserID:     pm.ToUserID,
			FromUserID:   pm.FromUserID,
			FromUsername: pm.FromUsername,
			Content:      pm.Content,
		}, nil, nil
	case proto.InboundTypeCreateGroup:
		var group proto.CreateGroupData
		if err := json.Unmarshal(inbound.Data, &group); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:           core.CommandCreateGroup,
			GroupName:      group.Name,
			ParticipantIDs: group.ParticipantUserIDs,
		}, nil, nil
	case proto.InboundTypeSendGroupMessage:
		var msg proto.SendGroupMessageData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:    core.CommandSendGroupMessage,
			GroupID: msg.GroupID,
			Content: msg.Content,
		}, nil, nil
	case proto.InboundTypeGetGroups:
		return &core.Command{Kind: core.CommandGetGroups}, nil, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventChannelSnapshot:
		return outboundEvent(proto.EventChannelSnapshot, snapshotData(event.Snapshot))
	case core.EventParticipantsChanged:
		return outboundEvent(proto.EventParticipantsChanged, proto.ParticipantsChangedData{
			ChannelID:    event.ChannelID,
			Participants: participantsData(event.Participants),
		})
	case core.EventReceiveMessage:
		return outboundEvent(proto.EventReceiveMessage, messageData(*event.Message))
	case core.EventTypingIndicator:
		usernames := event.Typing
		if usernames == nil {
			usernames = []string{}
		}
		return outboundEvent(proto.EventTypingIndicator, proto.TypingIndicatorData{
			ChannelID: event.ChannelID,
			Usernames: usernames,
		})
	case core.EventSearchResults:
		return outboundEvent(proto.EventSearchResults, participantsData(event.Results))
	case core.EventGamesList:
		return outboundEvent(proto.EventGamesList, gamesData(event.Games))
	case core.EventReceivePrivateMessage:
		pm := event.Private
		return outboundEvent(proto.EventReceivePrivateMessage, proto.PrivateMessageData{
			FromUserID:   pm.FromUserID,
			FromUsername: pm.FromUsername,
			ToUserID:     pm.ToUserID,
			Content:      pm.Content,
			TS:           pm.CreatedAt.Unix(),
		})
	case core.EventGroupCreated:
		return outboundEvent(proto.EventGroupCreated, groupData(*event.Group))
	case core.EventReceiveGroupMessage:
		return outboundEvent(proto.EventReceiveGroupMessage, groupMessageData(*event.GroupMessage))
	case core.EventUserGroups:
		groups := make([]proto.GroupChatData, 0, len(event.Groups))
		for _, g := range event.Groups {
			groups = append(groups, groupData(g))
		}
		return outboundEvent(proto.EventUserGroups, groups)
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func outboundEvent(name string, data any) proto.Outbound {
	return proto.Outbound{Type: proto.OutboundTypeEvent, Event: name, Data: data}
}

func snapshotData(s *core.ChannelSnapshot) proto.ChannelSnapshotData {
	history := make([]proto.MessageData, 0, len(s.History))
	for _, msg := range s.History {
		history = append(history, messageData(msg))
	}
	return proto.ChannelSnapshotData{
		ChannelID:    s.ChannelID,
		CreatedAt:    s.CreatedAt.Unix(),
		CreatedBy:    s.CreatedBy,
		History:      history,
		Participants: participantsData(s.Participants),
	}
}

func participantsData(participants []core.Participant) []proto.ParticipantData {
	out := make([]proto.ParticipantData, 0, len(participants))
	for _, p := range participants {
		out = append(out, proto.ParticipantData{
			Username:  p.Username,
			UserID:    p.UserID,
			AvatarURL: p.AvatarURL,
			IsTyping:  p.IsTyping,
		})
	}
	return out
}

func messageData(msg core.ChatMessage) proto.MessageData {
	return proto.MessageData{
		ChannelID: msg.ChannelID,
		Username:  msg.Username,
		UserID:    msg.UserID,
		Content:   msg.Content,
		TS:        msg.CreatedAt.Unix(),
		AvatarURL: msg.AvatarURL,
	}
}

func gamesData(games []core.Game) []proto.GameData {
	out := make([]proto.GameData, 0, len(games))
	for _, g := range games {
		servers := make([]proto.GameServerData, 0, len(g.Servers))
		for _, srv := range g.Servers {
			avatars := srv.AvatarURLs
			if avatars == nil {
				avatars = []string{}
			}
			servers = append(servers, proto.GameServerData{
				ChannelID:   srv.ChannelID,
				PlayerCount: srv.PlayerCount,
				AvatarURLs:  avatars,
			})
		}
		out = append(out, proto.GameData{
			PlaceID:     g.PlaceID,
			Name:        g.Name,
			ImageURL:    g.ImageURL,
			ServerCount: g.ServerCount,
			PlayerCount: g.PlayerCount,
			Servers:     servers,
		})
	}
	return out
}

func groupData(g core.GroupChat) proto.GroupChatData {
	messages := make([]proto.GroupMessageData, 0, len(g.Messages))
	for _, msg := range g.Messages {
		messages = append(messages, groupMessageData(msg))
	}
	return proto.GroupChatData{
		GroupID:      g.GroupID,
		Name:         g.Name,
		Participants: g.Participants,
		Messages:     messages,
		CreatedBy:    g.CreatedBy,
		CreatedAt:    g.CreatedAt.Unix(),
	}
}

func groupMessageData(msg core.GroupMessage) proto.GroupMessageData {
	return proto.GroupMessageData{
		GroupID:      msg.GroupID,
		FromUserID:   msg.FromUserID,
		FromUsername: msg.FromUsername,
		Content:      msg.Content,
		TS:           msg.CreatedAt.Unix(),
	}
}
