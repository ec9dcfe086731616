package extraction

import "fmt"

// DurationPrompt asks for the number of weeks a program spans.
const DurationPrompt = `Analyze the workout program and determine how many weeks it runs for. Count weeks as the program defines them, not by the number of training days. If the program does not state a length, count the distinct weeks it describes. Return only the number of weeks as an integer.`

// WeekPrompt asks for the exercises of one week as structured JSON.
func WeekPrompt(week int) string {
	return fmt.Sprintf(`Analyze the workout program and extract the exercises for Week %d. Return the output as a JSON object with no additional text or comments. Ensure the JSON is valid. If there are any quotes within any field, replace them with asterisks. Do not include any escaped characters in the output.
For each exercise, include the following attributes:
- Exercise Name: If the exercise name has any superset related information, like A1, B2 etc, do not include it in the exercise name, but mention it in the notes.
- Sets: A list of objects where each object includes:
- Set Number: Number representing the sequence of the set (e.g., 1, 2, 3, etc.)
- Reps: Object with 'isRange', 'value', 'min', and 'max' (use empty values if not mentioned). If the reps are non-numeric (e.g., MR, MR10, or hyphen separated like 12-15), convert them to numeric values (e.g., MR = 10, MR10 = 10, 12-15 = min: 12 max:15) and mention the original format in the notes. Rep ranges may have been converted to dates by the spreadsheet (for example 3-4 may appear as 04/03/YYYY). Correct this to a range: dd/mm/yyyy maps to min(dd,mm), max(dd,mm).
- Weight: Object with 'value' and 'unit' (use empty values if not mentioned; if a range is provided, use the lower limit as 'value' and note the range in 'Notes')
- Rest Time: Object with 'value' and 'unit' (use empty values if not mentioned)
- Notes: Include warmups or additional notes; if a weight range exists, mention it here. If the program specifies the total number of sets in text (e.g., *3 sets*), create individual entries for each set. If reps are converted from non-numeric values, mention the original format here. Leave blank if not mentioned. Do not count the weeks by the number of days, follow the number of weeks in the program. Do not ignore any workouts, if a workout is repeated, include it in the output.
Ensure that:
1. If sets are written in text (e.g., *3 sets*), interpret this and generate separate numbered entries for each set with identical details unless specified otherwise.
2. If sets are explicitly listed with varying details, preserve these details in the output.
3. Warmup sets may be written in text (e.g., *3 sets*), ensure they are included in the notes.`, week)
}
