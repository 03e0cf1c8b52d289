package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/OppenHaix/MySoulLinker/storage/sqlite"
	"github.com/OppenHaix/MySoulLinker/vars"
)

// 往数据库灌一批演示数据：几位联系人、各自的聊天记录，
// 以及一份预置的分析结果，方便前端开发和演示时不用先调模型

type seedLine struct {
	Speaker string
	Content string
	DaysAgo int
}

type seedContact struct {
	Name     string
	Notes    string
	Tags     string
	Lines    []seedLine
	Analysis *sqlite.AnalysisResult
}

func main() {
	db, err := sqlite.InitDB(vars.DB_PATH)
	if err != nil {
		log.Fatalln("初始化数据库失败:", err)
	}

	ctx := context.Background()
	contactRepo := sqlite.NewContactRepo(db)
	chatRepo := sqlite.NewChatLogRepo(db)
	analysisRepo := sqlite.NewAnalysisRepo(db)

	if n, err := contactRepo.Count(ctx); err != nil {
		log.Fatalln("查询联系人失败:", err)
	} else if n > 0 {
		log.Printf("数据库已有 %d 位联系人，跳过灌数据\n", n)
		return
	}

	for _, sc := range sampleContacts() {
		contact := &sqlite.Contact{
			Name:   sc.Name,
			Avatar: vars.DEFAULT_AVATAR,
			Notes:  sc.Notes,
			Tags:   sc.Tags,
		}
		if err := contactRepo.Create(ctx, contact); err != nil {
			log.Fatalf("创建联系人 %s 失败: %v\n", sc.Name, err)
		}

		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		logs := make([]sqlite.ChatLog, 0, len(sc.Lines))
		for _, line := range sc.Lines {
			logs = append(logs, sqlite.ChatLog{
				ContactID: contact.ID,
				Speaker:   line.Speaker,
				Content:   line.Content,
				ChatDate:  today.AddDate(0, 0, -line.DaysAgo),
			})
		}
		if err := chatRepo.BatchCreate(ctx, contact.ID, logs); err != nil {
			log.Fatalf("写入 %s 的聊天记录失败: %v\n", sc.Name, err)
		}

		if sc.Analysis != nil {
			sc.Analysis.ContactID = contact.ID
			if err := analysisRepo.Upsert(ctx, sc.Analysis); err != nil {
				log.Fatalf("写入 %s 的分析结果失败: %v\n", sc.Name, err)
			}
		}

		log.Printf("已创建联系人 %s（%d 条聊天记录）\n", sc.Name, len(logs))
	}
	log.Println("演示数据灌入完成")
}

func sampleContacts() []seedContact {
	return []seedContact{
		{
			Name:  "张明",
			Notes: "大学室友，现在在互联网公司做产品经理",
			Tags:  "朋友,大学同学",
			Lines: []seedLine{
				{"张明", "周末有空吗？一起出来吃个饭啊", 3},
				{"我", "好啊，去哪儿吃？", 3},
				{"张明", "我知道一家新开的火锅店，味道超棒", 3},
				{"我", "行啊，那就周六晚上吧", 3},
				{"张明", "对了，你最近工作怎么样？", 5},
				{"我", "还行吧，就是项目赶得比较紧", 5},
				{"张明", "保重身体啊，别太拼了", 5},
				{"我", "知道啦，你也是", 5},
				{"张明", "上周看的那部电影怎么样？", 7},
				{"我", "挺好看的，剧情很紧凑", 7},
				{"张明", "我也想去看，等有空约一个", 7},
			},
			Analysis: &sqlite.AnalysisResult{
				CoreTraits: mustJSON(map[string]string{
					"rationality":       "做事有计划，但也不失灵活性",
					"introversion":      "偏外向，喜欢社交和聚会",
					"planning":          "习惯提前规划，但也能随性应对变化",
					"responsibility":    "对朋友真诚，答应的事会做到",
					"stress_resistance": "心态较好，能合理调节压力",
					"decision_style":    "偏向民主协商，会听取他人意见",
				}),
				BehaviorPreferences: mustJSON(map[string]any{
					"high_frequency_topics": []string{"电影", "美食", "工作", "聚会"},
					"interests":             []string{"美食探店", "电影", "运动"},
					"hobbies":               []string{"篮球", "看剧"},
					"preferences":           "喜欢新鲜事物，热衷于探索新店",
					"avoidances":            "不太喜欢太正式的场合",
					"lifestyle":             "工作之余注重生活品质，周末喜欢放松",
				}),
				SocialInteraction: mustJSON(map[string]string{
					"initiative":          "经常主动发起邀约，维护朋友关系",
					"expression_style":    "说话直接热情，善于表达",
					"response_pattern":    "回复及时，互动积极",
					"empathy":             "能理解朋友的处境和感受",
					"sharing_willingness": "乐于分享生活和经历",
					"boundary_awareness":  "尊重他人边界，不过度干涉",
					"collaboration_style": "配合度高，善于协调",
				}),
				CognitiveThinking: mustJSON(map[string]string{
					"knowledge_depth":   "知识面广但不精",
					"knowledge_breadth": "对生活娱乐类信息关注较多",
					"values":            "重视友情和生活平衡",
					"principles":        "为人正直，重承诺",
				}),
				Summary:   "热情开朗的生活家，善于维护社交关系",
				Interests: mustJSON([]string{"美食", "电影", "篮球", "旅行", "音乐"}),
				DosAndDonts: mustJSON(map[string][]string{
					"dos":   {"约他尝试新餐厅", "周末一起看电影", "聊生活话题"},
					"donts": {"让他做太正式的决定", "忽视他的邀约"},
				}),
				TopicSuggestions: mustJSON([]string{
					"最近上映的电影", "新开的餐厅或美食", "周末活动安排", "工作近况", "篮球或运动相关",
				}),
				GiftSuggestions: mustJSON([]string{
					"电影票或演出票", "运动装备", "美食礼券", "高品质蓝牙耳机",
				}),
			},
		},
		{
			Name:  "李雪",
			Notes: "公司同事，负责设计工作，非常有艺术气质",
			Tags:  "同事,设计",
			Lines: []seedLine{
				{"我", "那个项目的设计稿什么时候能给我？", 2},
				{"李雪", "大概周四能完成，这两天在赶另一个需求", 2},
				{"我", "好的，不急，质量第一", 2},
				{"李雪", "谢谢理解！对了，我最近在学水彩画", 4},
				{"我", "哇，好厉害！能看看你的作品吗", 4},
				{"李雪", "还在练习阶段，等有成品了分享给你", 4},
				{"我", "太期待了，感觉你做什么都很认真", 4},
				{"李雪", "哈哈谢谢，主要是很喜欢嘛", 4},
				{"李雪", "今天看到一款超美的配色，分享给你看看", 6},
				{"我", "这个颜色搭配太舒服了，什么项目用的？", 6},
				{"李雪", "是一个个人练习作品，想做一个极简风格的app界面", 6},
			},
		},
		{
			Name:  "王强",
			Notes: "发小，现在在老家发展，偶尔联系",
			Tags:  "发小,家人朋友",
			Lines: []seedLine{
				{"王强", "过年回家吗？", 10},
				{"我", "回的，你呢？", 10},
				{"王强", "我也回，到时候聚聚", 10},
				{"我", "必须的，好久没见了", 10},
				{"王强", "对了，你还记得小时候一起玩的那个谁吗", 15},
				{"我", "记得啊，怎么了？", 15},
				{"王强", "听说他也回老家工作了", 15},
				{"我", "这么巧，有机会一起聚聚", 15},
				{"王强", "最近工作怎么样？", 20},
				{"我", "还行吧，你呢？", 20},
				{"王强", "我这边稳定，就是工资一般", 20},
				{"我", "稳定就好，有机会来我这边玩", 20},
			},
		},
	}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		log.Fatalln("序列化演示数据失败:", err)
	}
	return string(b)
}
