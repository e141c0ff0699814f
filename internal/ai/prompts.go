package ai

import "fmt"

// FridgePrompt asks for the core ingredients visible in one or more photos.
const FridgePrompt = `# KitchenFlow - Smart Fridge Scanner
Identify TOP 5-10 CORE ingredients only. Ignore trivial items.
Focus on MAIN ingredients (vegetables, proteins, dairy, staples). IGNORE condiment bottles, sauce jars, small packets.
For each item give freshness as one of "fresh", "use-soon" or "priority" and a confidence between 0 and 1.
Output JSON only, no markdown:
{
  "items": [
    {
      "name": "Baby Spinach",
      "quantity": 1,
      "unit": "bag",
      "freshness": "fresh",
      "confidence": 0.9,
      "visualNotes": "optional"
    }
  ],
  "scanQuality": "good"
}
Analyze the image(s) now:`

func cravingFromTextPrompt(text string) string {
	return fmt.Sprintf(`The user typed: %q. Identify the specific food item or dish they are craving. `+
		`If they typed 'I want a burger', extract 'Burger'. `+
		`Return the result in JSON format: { "foodName": "Dish Name" }.`, text)
}

func cravingFromPagePrompt(p *Page) string {
	return fmt.Sprintf(`Analyse the following web page and identify the main food or dish it is about.

Page title: %s
Page content:
%s

Return the result in JSON format: { "foodName": "Dish Name" }.`, p.BestTitle(), p.Summary())
}

func cravingFromURLPrompt(link string) string {
	return fmt.Sprintf(`The user provided this recipe or food link: %q. Identify the food item or dish name `+
		`from the URL structure or likely content. Return the result in JSON format: { "foodName": "Dish Name" }.`, link)
}

func recipePrompt(foodName string) string {
	return fmt.Sprintf(`Generate a recipe card for %q. Provide a short list of key ingredients (max 5) with a matching Material Symbol icon name for each. Provide 3 short, simplified cooking steps.
Return in JSON format matching this structure:
{
  "dishName": "String",
  "cuisine": "String (e.g. Thai Cuisine)",
  "cookingTime": "String (e.g. 25 mins)",
  "ingredients": [ {"name": "Ingredient Name", "icon": "icon_name"} ],
  "steps": ["Step 1...", "Step 2...", "Step 3..."]
}`, foodName)
}
